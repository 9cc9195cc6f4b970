package formula

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"
)

func TestCppInfoComponents(t *testing.T) {
	info := NewCppInfo()
	c := info.Comp("clangBasic")
	c.Libs = []string{"clangBasic"}
	c.SetProperty("cmake_target_name", "clangBasic")
	if info.Comp("clangBasic") != c {
		t.Fatal("Comp() created a second component for the same name")
	}
	info.Comp("clangAST")
	if got := info.ComponentNames(); !slices.Equal(got, []string{"clangAST", "clangBasic"}) {
		t.Errorf("ComponentNames() = %v", got)
	}
	if v, ok := c.Property("cmake_target_name"); !ok || v != "clangBasic" {
		t.Errorf("Property() = %v, %v", v, ok)
	}

	info.SetProperty("cmake_file_name", "Clang")
	info.SetEnv("DEPOT_TOOLS_UPDATE", "0")
	data, err := json.Marshal(info)
	if err != nil {
		t.Fatal(err)
	}
	for _, snippet := range []string{
		`"properties":{"cmake_file_name":"Clang"}`,
		`"components":{"clangAST":`,
		`"env":{"DEPOT_TOOLS_UPDATE":"0"}`,
		`"includedirs":["include"]`,
	} {
		if !strings.Contains(string(data), snippet) {
			t.Errorf("JSON missing %s: %s", snippet, data)
		}
	}
}
