package idl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateRobotBindings(t *testing.T) {
	root := parseSource(t, robotIDL)

	outputDir := t.TempDir()
	gen := NewGenerator(root, outputDir)
	gen.SetPackageName("hppidl")

	if err := gen.Generate(); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outputDir, "hpp", "robot.go"))
	if err != nil {
		t.Fatalf("generated robot.go missing: %v", err)
	}
	src := string(data)

	for _, want := range []string{
		"package hppidl",
		"type Robot interface {",
		"AppendJoint(parentJoint string, jointName string, jointType string, pose []float64) error",
		"GetCurrentConfig() ([]float64, error)",
		"GetConfigSize() (int32, error)",
		"type RobotStub struct {",
		"type RobotServant struct {",
		`case "appendJoint":`,
		"giop.AsDoubleSeq(args[3])",
		`"IDL:hpp/Robot:1.0"`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated code missing %q", want)
		}
	}
}

func TestGenerateTypedefAndException(t *testing.T) {
	root := parseSource(t, robotIDL)

	outputDir := t.TempDir()
	gen := NewGenerator(root, outputDir)
	gen.SetPackageName("hppidl")

	if err := gen.Generate(); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outputDir, "hpp", "floatseq.go"))
	if err != nil {
		t.Fatalf("generated floatseq.go missing: %v", err)
	}
	if !strings.Contains(string(data), "type floatSeq = []float64") {
		t.Errorf("floatSeq alias not generated:\n%s", data)
	}

	data, err = os.ReadFile(filepath.Join(outputDir, "hpp", "error.go"))
	if err != nil {
		t.Fatalf("generated error.go missing: %v", err)
	}
	src := string(data)
	if !strings.Contains(src, "type Error struct {") || !strings.Contains(src, "Msg string") {
		t.Errorf("Error exception not generated:\n%s", src)
	}
	if !strings.Contains(src, `"IDL:hpp/Error:1.0"`) {
		t.Errorf("Error repository ID missing:\n%s", src)
	}
}
