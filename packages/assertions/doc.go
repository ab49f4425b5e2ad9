// Package assertions records the outcome of individual checks made during a
// hitmock test.
//
// An Assertion carries the name of the check, a message and, when the check
// failed, the error describing why. Assertions are collected into a List that
// knows how long the test ran and how many entries passed or failed.
//
// Check primitives (Ok, Equals, Same, Contains, Matches, Throws, ...) are
// delegated to testify's assert package; a failed check is captured into a
// failed Assertion instead of stopping the test.
package assertions
