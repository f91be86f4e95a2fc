package db

import "testing"

func TestSummarizeSQL(t *testing.T) {
	cases := []struct{ in, op, table string }{
		{"SELECT * FROM `provision_records` WHERE bucket = ?", "SELECT", "provision_records"},
		{"insert into targets (name) values (?)", "INSERT", "targets"},
		{"UPDATE api_tokens SET hash = ? WHERE id = ?", "UPDATE", "api_tokens"},
		{"DELETE FROM targets WHERE name = ?", "DELETE", "targets"},
	}
	for _, c := range cases {
		op, table := summarizeSQL(c.in)
		if op != c.op || table != c.table {
			t.Fatalf("summarizeSQL(%q)=%q,%q want %q,%q", c.in, op, table, c.op, c.table)
		}
	}
}
