package ui

import (
	"bytes"
	"strings"
	"testing"

	"skilltree/internal/domain"

	"github.com/fatih/color"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"ID", "NAME"}, [][]string{
		{"a", "slash"},
		{"bbb", "parry"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "  ID   NAME" {
		t.Errorf("expected aligned header, got %q", lines[0])
	}
	if lines[3] != "  bbb  parry" {
		t.Errorf("expected aligned row, got %q", lines[3])
	}

	t.Run("empty rows print nothing", func(t *testing.T) {
		var empty bytes.Buffer
		Table(&empty, []string{"ID"}, nil)
		if empty.Len() != 0 {
			t.Errorf("expected no output, got %q", empty.String())
		}
	})
}

func TestProblems(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		var buf bytes.Buffer
		Problems(&buf, nil)
		if !strings.Contains(buf.String(), "no problems") {
			t.Errorf("expected clean report, got %q", buf.String())
		}
	})

	t.Run("counts", func(t *testing.T) {
		var buf bytes.Buffer
		Problems(&buf, []domain.Problem{
			domain.Errorf("classes/swordsman", "slash", "definition %q not found", "slash"),
			domain.Warnf("classes/swordsman", "parry", "overwritten"),
			domain.Warnf("classes/archer", "", "no nodes"),
		})
		out := buf.String()
		if !strings.Contains(out, "1 error(s), 2 warning(s)") {
			t.Errorf("expected summary line, got %q", out)
		}
		if !strings.Contains(out, "classes/archer") {
			t.Errorf("expected source in report, got %q", out)
		}
	})
}
