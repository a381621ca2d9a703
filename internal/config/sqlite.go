package config

const defaultSQLitePath = "data/finance.db"

type SQLiteConfig struct {
	DbPath string `yaml:"path"`
}

func (s *SQLiteConfig) Path() string {
	if s.DbPath == "" {
		return defaultSQLitePath
	}
	return s.DbPath
}
