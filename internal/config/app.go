package config

const defaultStorageDriver = "sqlite"

type AppConfig struct {
	StorageDriver string `yaml:"storage"`
}

func (s *AppConfig) Storage() string {
	if s.StorageDriver == "" {
		return defaultStorageDriver
	}
	return s.StorageDriver
}
