package repository

import (
	"database/sql"
	"encoding/json"
)

// scanJSON decodes a nullable JSON column into dst. A NULL or empty
// column leaves dst untouched.
func scanJSON(col sql.NullString, dst any) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), dst)
}

// mustJSON marshals v for use inside a JSON_ARRAY_APPEND cast. History
// entries are plain structs; marshalling cannot realistically fail, but
// an empty object keeps the SQL valid if it ever does.
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// appendJSON is the SQL fragment that appends one entry to a nullable
// JSON array column.
const appendJSON = "JSON_ARRAY_APPEND(COALESCE(%s, JSON_ARRAY()), '$', CAST(? AS JSON))"
