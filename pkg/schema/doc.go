// Package schema defines the authored-table file format and its codecs.
//
// A table maps node ids to entries:
//
//	"2":
//	  question: "Do you believe there's a God?"
//	  suggestions:
//	    - "Yes"
//	    - "No"
//	  next_questions:
//	    "Yes": "3"
//	    "No": "2b"
//	  context: "Establishes belief in God"
//
// The same shape is accepted as JSON. Both codecs preserve the order of
// nodes, suggestions and next_questions: transition order is the fuzzy-match
// tie-break order, so a plain map would silently change behavior. Decoding
// and re-encoding a table is lossless.
//
//	table, err := schema.Decode(data, schema.FormatYAML)
//	if err != nil {
//	    for _, e := range schema.ValidationErrors(err) { ... }
//	}
//	def := table.Definition()
package schema
