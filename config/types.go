package config

import "time"

// Config the ayya admin service config
type Config struct {
	Mode          string   `json:"mode,omitempty" env:"AYYA_ENV" envDefault:"production"`           // Start mode production/development
	Root          string   `json:"root,omitempty" env:"AYYA_ROOT" envDefault:"."`                   // Application root
	TimeZone      string   `json:"timezone,omitempty" env:"AYYA_TIMEZONE" envDefault:"UTC"`         // Calendar days of the export range are taken in this zone
	Host          string   `json:"host,omitempty" env:"AYYA_HOST" envDefault:"0.0.0.0"`             // Listening host
	Port          int      `json:"port,omitempty" env:"AYYA_PORT" envDefault:"5099"`                // Listening port
	Log           string   `json:"log,omitempty" env:"AYYA_LOG"`                                    // Log file, empty writes to stdout
	LogMode       string   `json:"log_mode,omitempty" env:"AYYA_LOG_MODE" envDefault:"TEXT"`        // Log mode JSON|TEXT
	LogMaxSize    int      `json:"log_max_size,omitempty" env:"AYYA_LOG_MAX_SIZE" envDefault:"100"` // Megabytes before rotation
	LogMaxBackups int      `json:"log_max_backups,omitempty" env:"AYYA_LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAage    int      `json:"log_max_age,omitempty" env:"AYYA_LOG_MAX_AGE" envDefault:"28"` // Days
	LogLocalTime  bool     `json:"log_local_time,omitempty" env:"AYYA_LOG_LOCAL_TIME" envDefault:"true"`
	AllowFrom     []string `json:"allowfrom,omitempty" envSeparator:"|" env:"AYYA_ALLOW_FROM"` // CORS origins, the separator is |
	Store         Store    `json:"store,omitempty"`
	Admin         Admin    `json:"admin,omitempty"`
	Export        Export   `json:"export,omitempty"`
}

// Store the record store config
type Store struct {
	Driver        string        `json:"driver,omitempty" env:"AYYA_STORE_DRIVER" envDefault:"supabase"` // supabase | postgres | file
	SupabaseURL   string        `json:"supabase_url,omitempty" env:"AYYA_SUPABASE_URL"`                 // Project URL, falls back to NEXT_PUBLIC_SUPABASE_URL
	SupabaseKey   string        `json:"-" env:"AYYA_SUPABASE_SERVICE_KEY"`                              // Service role key, falls back to SUPABASE_SERVICE_ROLE_KEY
	DSN           string        `json:"-" env:"AYYA_DB_DSN"`                                            // Postgres DSN
	MaxConns      int32         `json:"max_conns,omitempty" env:"AYYA_DB_MAX_CONNS" envDefault:"4"`
	File          string        `json:"file,omitempty" env:"AYYA_STORE_FILE"`                             // JSON bundle file for the file driver
	CreatedColumn string        `json:"created_column,omitempty" env:"AYYA_CREATED_COLUMN" envDefault:"created_at"`
	OrderKey      string        `json:"order_key,omitempty" env:"AYYA_STORE_ORDER_KEY" envDefault:"id"` // Unique column ordering PostgREST pages after the creation time
	PageSize      int           `json:"page_size,omitempty" env:"AYYA_STORE_PAGE_SIZE" envDefault:"1000"` // PostgREST page size
	Timeout       time.Duration `json:"timeout,omitempty" env:"AYYA_STORE_TIMEOUT" envDefault:"30s"`      // Per collection query timeout
}

// Admin the admin session config
type Admin struct {
	Email        string        `json:"email,omitempty" env:"AYYA_ADMIN_EMAIL"` // Falls back to ADMIN_EMAIL
	Password     string        `json:"-" env:"AYYA_ADMIN_PASSWORD"`            // Falls back to ADMIN_PASSWORD
	Secret       string        `json:"-" env:"AYYA_ADMIN_SECRET"`              // Falls back to ADMIN_SECRET, the supabase key, then dev-secret
	JWTSecret    string        `json:"-" env:"AYYA_ADMIN_JWT_SECRET"`          // Bearer tokens are rejected when empty
	Cookie       string        `json:"cookie,omitempty" env:"AYYA_ADMIN_COOKIE" envDefault:"ayya_admin_auth"`
	SecureCookie bool          `json:"secure_cookie,omitempty" env:"AYYA_ADMIN_SECURE_COOKIE" envDefault:"false"`
	SessionTTL   time.Duration `json:"session_ttl,omitempty" env:"AYYA_ADMIN_SESSION_TTL" envDefault:"24h"`
}

// Export the export engine config
type Export struct {
	ImageCap         int           `json:"image_cap,omitempty" env:"AYYA_EXPORT_IMAGE_CAP" envDefault:"200"`           // Images embedded per sheet at most
	ImageSize        int           `json:"image_size,omitempty" env:"AYYA_EXPORT_IMAGE_SIZE" envDefault:"60"`          // Thumbnail edge in pixels
	FetchTimeout     time.Duration `json:"fetch_timeout,omitempty" env:"AYYA_EXPORT_FETCH_TIMEOUT" envDefault:"10s"`   // Per image
	MaxImageBytes    int64         `json:"max_image_bytes,omitempty" env:"AYYA_EXPORT_MAX_IMAGE_BYTES" envDefault:"5242880"`
	FetchConcurrency int           `json:"fetch_concurrency,omitempty" env:"AYYA_EXPORT_FETCH_CONCURRENCY" envDefault:"1"`
	QueryConcurrency int           `json:"query_concurrency,omitempty" env:"AYYA_EXPORT_QUERY_CONCURRENCY" envDefault:"1"`
	ImageHosts       []string      `json:"image_hosts,omitempty" envSeparator:"|" env:"AYYA_EXPORT_IMAGE_HOSTS"` // Empty allows any host
}
