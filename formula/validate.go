package formula

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/goplus/llarhub/pkgs/gnu"
)

// ErrInvalidConfiguration is matched by every configuration failure.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// InvalidConfigurationError reports a configuration a recipe can't build.
type InvalidConfigurationError struct {
	Recipe string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("%s: invalid configuration: %s", e.Recipe, e.Reason)
}

func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// Invalid returns an InvalidConfigurationError for recipe.
func Invalid(recipe, reason string) error {
	return &InvalidConfigurationError{Recipe: recipe, Reason: reason}
}

func invalidf(recipe, format string, args ...any) error {
	return Invalid(recipe, fmt.Sprintf(format, args...))
}

// UnknownCompilerPolicy decides what happens when the compiler has no
// declared minimum version.
type UnknownCompilerPolicy int

const (
	// SkipUnknown performs no check.
	SkipUnknown UnknownCompilerPolicy = iota
	// AssumeSupported logs a warning and accepts the compiler.
	AssumeSupported
	// RejectUnknown fails validation.
	RejectUnknown
)

// CompilerRequirement is the C++ support a recipe needs.
type CompilerRequirement struct {
	// CppStd is the minimum C++ standard, e.g. 17.
	CppStd int
	// Minimums maps compiler names to their first version supporting CppStd.
	Minimums map[string]string
	// Unknown applies to compilers absent from Minimums.
	Unknown UnknownCompilerPolicy
}

// Check validates s against the requirement.
func (req CompilerRequirement) Check(recipe string, s Settings, logger *log.Logger) error {
	if req.CppStd != 0 {
		if err := CheckMinCppStd(recipe, s, req.CppStd); err != nil {
			return err
		}
	}
	min, ok := req.Minimums[s.Compiler]
	if !ok {
		switch req.Unknown {
		case AssumeSupported:
			if logger == nil {
				logger = log.Default()
			}
			logger.Warn("unknown compiler, assuming it supports the required standard",
				"recipe", recipe, "compiler", s.Compiler, "cppstd", req.CppStd)
		case RejectUnknown:
			return invalidf(recipe, "compiler %q is not known to support C++%d", s.Compiler, req.CppStd)
		}
		return nil
	}
	if s.CompilerVersion == "" {
		return nil
	}
	if gnu.Less(s.CompilerVersion, min) {
		return invalidf(recipe, "requires C++%d, which %s %s does not support (minimum %s)",
			req.CppStd, s.Compiler, s.CompilerVersion, min)
	}
	return nil
}

// CheckMinCppStd fails when the configured C++ standard is older than min.
// An unset standard passes.
func CheckMinCppStd(recipe string, s Settings, min int) error {
	if s.CppStd == "" {
		return nil
	}
	got, err := cppStdYear(s.CppStd)
	if err != nil {
		return invalidf(recipe, "%v", err)
	}
	want, err := cppStdYear(strconv.Itoa(min))
	if err != nil {
		return err
	}
	if got < want {
		return invalidf(recipe, "current cppstd (%s) is lower than the required C++ standard (%d)", s.CppStd, min)
	}
	return nil
}

// cppStdYear maps "98", "11", "gnu17", "20" ... to a comparable year.
func cppStdYear(std string) (int, error) {
	v := strings.TrimPrefix(std, "gnu")
	n, err := strconv.Atoi(v)
	if err != nil || len(v) != 2 {
		return 0, fmt.Errorf("invalid cppstd %q", std)
	}
	if n >= 90 {
		return 1900 + n, nil
	}
	return 2000 + n, nil
}
