/*
Package importer turns loosely formatted script text into a graph definition.

It is best effort by nature. A line such as "3. Do you believe there's a God?"
starts a node; the lines up to the next numbered line are mined for short
declarative answers ("Not sure.") and flow annotations ("If they say no,
proceed to Q5"). Nodes that end up without any transition get a Yes/No/Not sure
fallback to the next numbered node, so the imported script can always be walked
to the end. When the text holds no numbered line at all, a small synthetic
conversation echoing the text is produced instead.

The hand-authored table remains the source of truth; imports are a starting
point for authors (see the "import" command).
*/
package importer
