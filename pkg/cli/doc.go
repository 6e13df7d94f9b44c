// Package cli implements the recordkit command line.
//
// Commands:
//
//	validate  validate JSON or YAML record files against a schema
//	watch     reload schema documents on change and revalidate files
//	schema    list schemas or export one as JSON Schema
//
// Configuration comes from RECORDKIT_ variables (see config.App), optionally
// read from a dotenv file given with --env-file. Global flags override it.
// Without a schema directory the built-in catalog schemas are used; with
// one, the schemas are exactly the documents found there.
package cli
