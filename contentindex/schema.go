package contentindex

// Four tables, all keyed by pkid: contents, icons and locale are the three
// sub-stores of spec.md §4.1, projected from put()'s file_list at write
// time, and packages records every pkid put() has seen, so a package with
// an empty file_list still counts for contains(). icons and
// locale are filtered projections of contents kept in their own tables so
// files_map's indexed SELECT never has to re-filter by suffix at read time.
const schema = `
CREATE TABLE IF NOT EXISTS packages (
	pkid TEXT NOT NULL PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS contents (
	pkid TEXT NOT NULL,
	path TEXT NOT NULL,
	PRIMARY KEY (pkid, path)
);
CREATE TABLE IF NOT EXISTS icons (
	pkid TEXT NOT NULL,
	path TEXT NOT NULL,
	PRIMARY KEY (pkid, path)
);
CREATE INDEX IF NOT EXISTS icons_path_idx ON icons (path);
CREATE TABLE IF NOT EXISTS locale (
	pkid TEXT NOT NULL,
	path TEXT NOT NULL,
	PRIMARY KEY (pkid, path)
);
CREATE INDEX IF NOT EXISTS locale_path_idx ON locale (path);
`
