package models

import (
	"testing"
)

func TestGenerateShapeAllKinds(t *testing.T) {
	for _, kind := range ShapeKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			m, err := GenerateShape(kind, DefaultShapeParams(kind))
			if err != nil {
				t.Fatalf("GenerateShape: %v", err)
			}
			if m.VertexCount() == 0 || m.TriangleCount() == 0 {
				t.Errorf("%s generated empty mesh", kind)
			}
			if m.Name != kind.String() {
				t.Errorf("mesh name = %q, want %q", m.Name, kind.String())
			}
		})
	}
}

func TestGenerateShapeUnknown(t *testing.T) {
	if _, err := GenerateShape(ShapeKind(99), ShapeParams{}); err == nil {
		t.Error("expected error for unknown shape kind")
	}
	if _, err := GenerateShape(ShapeKind(-1), ShapeParams{}); err == nil {
		t.Error("expected error for negative shape kind")
	}
}

func TestParseShapeKind(t *testing.T) {
	for _, kind := range ShapeKinds() {
		got, err := ParseShapeKind(kind.String())
		if err != nil {
			t.Fatalf("ParseShapeKind(%q): %v", kind.String(), err)
		}
		if got != kind {
			t.Errorf("ParseShapeKind(%q) = %v, want %v", kind.String(), got, kind)
		}
	}

	if _, err := ParseShapeKind("dodecahedron"); err == nil {
		t.Error("expected error for unknown shape name")
	}
}

func TestShapeKindString(t *testing.T) {
	if got := ShapeCube.String(); got != "cube" {
		t.Errorf("String = %q, want cube", got)
	}
	if got := ShapeKind(42).String(); got != "shape(42)" {
		t.Errorf("String for unknown = %q", got)
	}
}
