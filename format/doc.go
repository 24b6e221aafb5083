// Package format is a small substitution engine over UTF-16 templates.
//
// Each trigger unit ('%' by default) in the template is replaced by the next
// argument, and the unit right after the trigger is skipped without being
// looked at: "%s", "%d" and "%o" all mean the same thing. How an argument
// is rendered depends only on its tag:
//
//	f := format.New(c)
//	out, err := f.Sprint(format.Template("Test%s%d%o,test"),
//		format.UTF16("tester"), format.Str("test"), format.Int(13))
//	// out == "Testtestertest13,test"
//
// Output goes to a sink.Sink of 8-bit or 16-bit units. Text crossing
// between the two widths is converted with the formatter's codec.
package format
