// Package runner drives hitmock tests.
//
// A Test owns the assertions recorded while a test body runs and every mock
// created through it. Test.Done reconciles the test: it checks the declared
// assertion count, reports expectations that were never consumed, releases
// the HTTP stub and hands the final assertion list to the TestDone callback.
//
// RunModule runs a sequence of named cases with the module and test
// lifecycle callbacks of Options. Bind adapts a Test to the standard
// testing package.
package runner
