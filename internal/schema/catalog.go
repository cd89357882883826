package schema

import "github.com/JonMunkholm/WebDbAssistant/internal/db"

// Both queries return the same eleven columns, in this order:
// table, column, type, is_nullable, default, extra, column_key, constraint_type,
// referenced_table, referenced_column, comment.

const mysqlCatalogQuery = `
	SELECT
		c.TABLE_NAME,
		c.COLUMN_NAME,
		c.COLUMN_TYPE,
		c.IS_NULLABLE,
		c.COLUMN_DEFAULT,
		c.EXTRA,
		c.COLUMN_KEY,
		tc.CONSTRAINT_TYPE,
		kcu.REFERENCED_TABLE_NAME,
		kcu.REFERENCED_COLUMN_NAME,
		c.COLUMN_COMMENT
	FROM information_schema.COLUMNS c
	LEFT JOIN information_schema.KEY_COLUMN_USAGE kcu
		ON c.TABLE_SCHEMA = kcu.TABLE_SCHEMA
		AND c.TABLE_NAME = kcu.TABLE_NAME
		AND c.COLUMN_NAME = kcu.COLUMN_NAME
	LEFT JOIN information_schema.TABLE_CONSTRAINTS tc
		ON tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
		AND tc.TABLE_NAME = kcu.TABLE_NAME
		AND tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
	WHERE c.TABLE_SCHEMA = ?
	ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`

const postgresCatalogQuery = `
	SELECT
		c.table_name,
		c.column_name,
		c.data_type,
		c.is_nullable,
		c.column_default,
		CASE WHEN c.is_identity = 'YES' OR c.column_default LIKE 'nextval(%' THEN 'auto_increment' ELSE '' END,
		'',
		tc.constraint_type,
		CASE WHEN tc.constraint_type = 'FOREIGN KEY' THEN ccu.table_name END,
		CASE WHEN tc.constraint_type = 'FOREIGN KEY' THEN ccu.column_name END,
		COALESCE(pgd.description, '')
	FROM information_schema.columns c
	LEFT JOIN information_schema.key_column_usage kcu
		ON c.table_schema = kcu.table_schema
		AND c.table_name = kcu.table_name
		AND c.column_name = kcu.column_name
	LEFT JOIN information_schema.table_constraints tc
		ON tc.table_schema = kcu.table_schema
		AND tc.table_name = kcu.table_name
		AND tc.constraint_name = kcu.constraint_name
	LEFT JOIN information_schema.constraint_column_usage ccu
		ON ccu.constraint_schema = tc.constraint_schema
		AND ccu.constraint_name = tc.constraint_name
	LEFT JOIN pg_catalog.pg_statio_all_tables st
		ON st.schemaname = c.table_schema AND st.relname = c.table_name
	LEFT JOIN pg_catalog.pg_description pgd
		ON pgd.objoid = st.relid AND pgd.objsubid = c.ordinal_position
	WHERE c.table_schema = $1
	ORDER BY c.table_name, c.ordinal_position`

// postgresSchema is the namespace introspected on Postgres targets.
const postgresSchema = "public"

// catalogQuery returns the dialect's catalog query and its schema argument.
func catalogQuery(d db.Descriptor) (string, string) {
	if d.Driver == db.DriverPostgres {
		return postgresCatalogQuery, postgresSchema
	}
	return mysqlCatalogQuery, d.Database
}
