package clang

import "github.com/goplus/llarhub/pkgs/buildinfo"

// Rules classify the INTERFACE_LINK_LIBRARIES tokens of ClangTargets.cmake.
var Rules = buildinfo.Rules{
	Separator: ";",
	Renames: map[string]string{
		"LibXml2::LibXml2": "libxml2::libxml2",
	},
	LibFlagPrefix: "-l",
	Namespaces: map[string]string{
		"LLVM": "llvm-core",
	},
	// Linked by the Windows toolchain on its own.
	Excluded: map[string]bool{
		"ole32":                  true,
		"delayimp":               true,
		"shell32":                true,
		"advapi32":               true,
		"-delayload:shell32.dll": true,
		"uuid":                   true,
		"psapi":                  true,
		"-delayload:ole32.dll":   true,
	},
	SystemLibs: map[string]bool{
		"rt":      true,
		"m":       true,
		"dl":      true,
		"pthread": true,
	},
}
