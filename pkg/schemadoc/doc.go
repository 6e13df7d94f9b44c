// Package schemadoc reads schemas from YAML documents.
//
// A document lists fields with the same vocabulary as the schema package
// (type, optional, default, min, max, min_length, max_length, earliest,
// latest, enum, prefix, pattern, format, normalize, items) and either refers
// to another schema by name or declares nested fields inline. Cross-field
// rules are jq programs run against the record's canonical JSON form:
//
//	name: alien_contact
//	fields:
//	  - name: contact_id
//	    type: string
//	    min_length: 5
//	  - name: contact_type
//	    type: enum
//	    enum: [radio, visual, physical, telepathic]
//	  - name: is_verified
//	    type: boolean
//	    default: false
//	rules:
//	  - name: physical_verified
//	    message: Physical contact reports must be verified
//	    path: is_verified
//	    when: .contact_type == "physical"
//	    jq: .is_verified
//
// A rule passes when the first value its program produces is true.
package schemadoc
