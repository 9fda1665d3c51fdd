// Package envguard validates process environment variables against a
// declarative schema at program start.
//
// A schema maps keys to validators, optionally grouped under a shared
// prefix:
//
//	guard := envguard.Define(envguard.Schema{
//	    envguard.Key("PORT", envguard.Int().Port().Default(3000)),
//	    envguard.Key("DATABASE_URL", envguard.URL().Protocols("postgres")),
//	    envguard.Key("LOG_LEVEL", envguard.Enum("debug", "info", "warn", "error").Default("info")),
//	    envguard.Key("db", envguard.Group(envguard.FlatSchema{
//	        envguard.Field("HOST", envguard.String()),
//	        envguard.Field("POOL", envguard.Int().Min(1).Optional()),
//	    }, envguard.WithPrefix("DB_"))),
//	}).ForEnv(envguard.Overrides{
//	    "development": {envguard.Field("DATABASE_URL", envguard.URL().Default("postgres://localhost/dev"))},
//	})
//
//	values, err := guard.Parse()
//	if err != nil {
//	    log.Fatal(err) // *ValidationError listing every failing variable
//	}
//	port, _ := values.Int("PORT")
//	host, _ := values.Group("db").String("HOST")
//
// Every field is evaluated on each call; failures are collected, not
// short-circuited, and classified as missing, invalid_type,
// invalid_format or invalid_value. Absent and empty variables are
// treated the same.
//
// The active environment name (selecting ForEnv and group overrides)
// comes from WithEnvironment, or else from the APP_ENV variable of the
// snapshot being validated.
package envguard
