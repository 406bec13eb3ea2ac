/*
Package dsl provides a fluent builder for authoring conversation scripts in Go.

It is the in-code counterpart of the YAML/JSON table: useful for tests, for
generated scripts and for IDE autocompletion.

Example usage:

	b := dsl.New()

	b.Add("start").
		Ask("Hey I have a question for you").
		Answer("Sure", "1")

	b.Add("1").
		Ask("What do you think happens to us after we die?").
		Answer("Heaven and hell", "4").
		Answer("Not sure", "2").
		Note("Opening question")

	b.Add("complete").Ask("That's the end of the script.")

	// The result is a ports.GraphLoader
	loader, err := b.Build()
*/
package dsl
