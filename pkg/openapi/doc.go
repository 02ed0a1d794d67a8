// Package openapi seeds form drafts from OpenAPI 3 documents: the JSON
// request body of one operation becomes an ordered list of fields. Documents
// are loaded with kin-openapi, so $refs inside the document are resolved
// before mapping.
package openapi
