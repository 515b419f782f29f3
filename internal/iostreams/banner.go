package iostreams

import (
	"fmt"
	"strings"
)

// Banner prints a section banner naming the step about to run, so a
// reader of the run log can see which step was in progress at failure.
//
//	=======================
//	 Launching cluster...
//	=======================
func (s *IOStreams) Banner(title string) {
	cs := s.ColorScheme()
	rule := strings.Repeat("=", len(title)+2)
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, cs.render(BannerStyle, rule))
	fmt.Fprintln(s.Out, cs.render(BannerStyle, " "+title))
	fmt.Fprintln(s.Out, cs.render(BannerStyle, rule))
}

// PrintSuccess prints a success message to stderr with a checkmark icon.
func (s *IOStreams) PrintSuccess(format string, args ...any) {
	cs := s.ColorScheme()
	fmt.Fprintf(s.ErrOut, "%s %s\n", cs.SuccessIcon(), fmt.Sprintf(format, args...))
}

// PrintFailure prints an error message to stderr with an X icon.
func (s *IOStreams) PrintFailure(format string, args ...any) {
	cs := s.ColorScheme()
	fmt.Fprintf(s.ErrOut, "%s %s\n", cs.FailureIcon(), fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message to stderr with an exclamation icon.
func (s *IOStreams) PrintWarning(format string, args ...any) {
	cs := s.ColorScheme()
	fmt.Fprintf(s.ErrOut, "%s %s\n", cs.WarningIcon(), fmt.Sprintf(format, args...))
}
