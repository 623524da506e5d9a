package componentstore

// Tables per spec.md §4.2. `stats` deliberately has no unique constraint on
// ts: "Statistics must be append-only and tolerate clock skew by allowing
// multiple entries with the same timestamp."
const schema = `
CREATE TABLE IF NOT EXISTS metadata (
	gcid TEXT NOT NULL PRIMARY KEY,
	xml  BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS hints (
	gcid TEXT NOT NULL PRIMARY KEY,
	json BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS package_value (
	pkid  TEXT NOT NULL PRIMARY KEY,
	gcids TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS cid_gcid (
	component_id TEXT NOT NULL,
	gcid         TEXT NOT NULL,
	PRIMARY KEY (component_id, gcid)
);
CREATE INDEX IF NOT EXISTS cid_gcid_cid_idx ON cid_gcid (component_id);
CREATE TABLE IF NOT EXISTS stats (
	ts     INTEGER NOT NULL,
	metric TEXT NOT NULL,
	value  REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS stats_metric_idx ON stats (metric, ts);
CREATE TABLE IF NOT EXISTS repo_info (
	suite   TEXT NOT NULL,
	section TEXT NOT NULL,
	arch    TEXT NOT NULL,
	mtime   INTEGER NOT NULL,
	hash    TEXT NOT NULL,
	PRIMARY KEY (suite, section, arch)
);
CREATE TABLE IF NOT EXISTS scope_members (
	suite   TEXT NOT NULL,
	section TEXT NOT NULL,
	arch    TEXT NOT NULL,
	pkid    TEXT NOT NULL,
	PRIMARY KEY (suite, section, arch, pkid)
);
`
