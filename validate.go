package recjson

// Validate checks the structure of s ahead of encoding: every record field has
// a nested schema, every sequence field has the one-record element shape,
// every kind is known, and no schema contains itself. Encode performs the
// same structural checks lazily (a null value never inspects its nested
// schema), so Validate is optional.
//
// All problems are collected; the result is nil or Issues.
func (s *Schema) Validate() error {
	if s == nil {
		return singleIssue(rootPath(), CodeMissingSchema)
	}
	var iss Issues
	validateSchema(rootPath(), s, map[*Schema]bool{}, &iss)
	if len(iss) == 0 {
		return nil
	}
	return iss
}

func validateSchema(p *pathRef, s *Schema, active map[*Schema]bool, iss *Issues) {
	if active[s] {
		*iss = append(*iss, p.issue(CodeSchemaCycle))
		return
	}
	active[s] = true
	defer delete(active, s)

	for i := range s.Fields {
		f := &s.Fields[i]
		fp := p.field(f.Name)
		switch {
		case !f.Kind.Valid():
			*iss = append(*iss, fp.issue(CodeUnsupportedKind, "kind", f.Kind.String()))
		case f.Kind == KindRecord:
			if f.Nested == nil {
				*iss = append(*iss, fp.issue(CodeMissingNestedSchema))
				continue
			}
			validateSchema(fp, f.Nested, active, iss)
		case f.Kind == KindRecordSequence:
			if f.Nested != nil && active[f.Nested] {
				*iss = append(*iss, fp.issue(CodeSchemaCycle))
				continue
			}
			elem, err := sequenceElement(fp, f)
			if err != nil {
				*iss = append(*iss, err.(Issues)...)
				continue
			}
			validateSchema(fp.index(0), elem, active, iss)
		}
	}
}
