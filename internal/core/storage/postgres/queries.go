package postgres

// SQL used by the adapter itself. Explore statements are assembled per request
// by the explore package and arrive as sqlbuild.Statement values.

const (
	// querySchemaTables counts the star-schema tables that must exist before serving.
	querySchemaTables = `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		  AND table_name = ANY($1)
	`
)

// requiredTables are the tables explore statements join across.
var requiredTables = []string{
	"sales",
	"channels",
	"stores",
	"products",
	"product_sales",
	"categories",
}
