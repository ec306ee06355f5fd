package config

// AppConfig bundles everything the server process reads from the
// environment.
type AppConfig struct {
	Log    LogConfig
	Server ServerConfig
}

func LoadApp() (AppConfig, error) {
	var app AppConfig
	var err error
	if app.Log, err = LoadLog(); err != nil {
		return AppConfig{}, err
	}
	if app.Server, err = LoadServer(); err != nil {
		return AppConfig{}, err
	}
	return app, nil
}
