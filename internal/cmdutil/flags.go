package cmdutil

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// ChoiceValue is a pflag.Value restricted to a fixed set of strings.
type ChoiceValue struct {
	value   *string
	choices []string
}

var _ pflag.Value = (*ChoiceValue)(nil)

// NewChoiceValue creates a flag value that only accepts the given choices.
func NewChoiceValue(p *string, def string, choices ...string) *ChoiceValue {
	*p = def
	return &ChoiceValue{value: p, choices: choices}
}

func (v *ChoiceValue) String() string {
	return *v.value
}

func (v *ChoiceValue) Set(s string) error {
	for _, c := range v.choices {
		if s == c {
			*v.value = s
			return nil
		}
	}
	return FlagErrorf("invalid value %q (expected one of %s)", s, strings.Join(v.choices, ", "))
}

func (v *ChoiceValue) Type() string {
	return "string"
}

// Choices returns the accepted values, for help text.
func (v *ChoiceValue) Choices() string {
	return fmt.Sprintf("{%s}", strings.Join(v.choices, "|"))
}
