package conf

import "time"

// Duration is a config duration in Go syntax, e.g. "30s".
type Duration string

// AsDuration parses the duration, returning 0 on empty or malformed values.
func (d Duration) AsDuration() time.Duration {
	if d == "" {
		return 0
	}
	parsed, err := time.ParseDuration(string(d))
	if err != nil {
		return 0
	}
	return parsed
}

// Bootstrap is the root configuration.
type Bootstrap struct {
	Server     *Server     `json:"server"`
	Data       *Data       `json:"data"`
	Moderation *Moderation `json:"moderation"`
}

// Server holds transport configuration.
type Server struct {
	HTTP *HTTPServer `json:"http"`
}

// HTTPServer configures the HTTP listener.
type HTTPServer struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

// Data holds storage configuration.
type Data struct {
	Database *Database `json:"database"`
	Redis    *Redis    `json:"redis"`
}

// Database configures the Postgres connection.
type Database struct {
	Driver     string `json:"driver"`
	Source     string `json:"source"`
	Migrations string `json:"migrations"`
	Pool       *Pool  `json:"pool"`
}

// Pool configures the connection pool.
type Pool struct {
	MaxOpenConns    int32 `json:"max_open_conns"`
	MinIdleConns    int32 `json:"min_idle_conns"`
	MaxConnLifetime int64 `json:"max_conn_lifetime"` // minutes
	MaxConnIdleTime int64 `json:"max_conn_idle_time"` // minutes
}

// Redis configures the redis connection.
type Redis struct {
	Addr         string   `json:"addr"`
	Network      string   `json:"network"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
}

// Moderation holds moderation pipeline configuration.
type Moderation struct {
	Oracle   *Oracle  `json:"oracle"`
	Visual   *Visual  `json:"visual"`
	CacheTTL Duration `json:"cache_ttl"`
}

// Oracle configures the content scoring service replicas.
type Oracle struct {
	Endpoints []string `json:"endpoints"`
	Model     string   `json:"model"`
	Timeout   Duration `json:"timeout"`
}

// Visual configures visual analysis.
type Visual struct {
	UnsafeThreshold    float64 `json:"unsafe_threshold"`
	MaxHammingDistance int32   `json:"max_hamming_distance"`
}
