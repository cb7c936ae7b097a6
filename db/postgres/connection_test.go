package postgres

import (
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				ConnectionString: "host=localhost port=5432 user=postgres password=postgres dbname=portal sslmode=disable",
				ServiceName:      "talent-portal",
			},
			wantErr: false,
		},
		{
			name:    "missing connection string",
			cfg:     Config{ServiceName: "talent-portal"},
			wantErr: true,
		},
		{
			name: "tracing enabled without service name",
			cfg: Config{
				ConnectionString: "host=localhost port=5432",
				EnableTracing:    true,
			},
			wantErr: true,
		},
		{
			name: "max idle conns greater than max open conns",
			cfg: Config{
				ConnectionString: "host=localhost port=5432",
				MaxOpenConns:     5,
				MaxIdleConns:     10,
			},
			wantErr: true,
		},
		{
			name: "only open set",
			cfg: Config{
				ConnectionString: "host=localhost port=5432",
				MaxOpenConns:     10,
			},
			wantErr: false,
		},
		{
			name: "valid with tracing",
			cfg: Config{
				ConnectionString: "host=localhost port=5432",
				EnableTracing:    true,
				ServiceName:      "talent-portal",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{ConnectionString: "host=localhost", MaxOpenConns: 50}.withDefaults()

	if cfg.MaxOpenConns != 50 {
		t.Errorf("MaxOpenConns = %d, want 50", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 5 {
		t.Errorf("MaxIdleConns = %d, want 5", cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != time.Hour {
		t.Errorf("ConnMaxLifetime = %v, want 1h", cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime != 10*time.Minute {
		t.Errorf("ConnMaxIdleTime = %v, want 10m", cfg.ConnMaxIdleTime)
	}
}

func TestMaskConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		connStr string
		want    string
	}{
		{
			name:    "short connection string",
			connStr: "host=localhost",
			want:    "***",
		},
		{
			name:    "long connection string",
			connStr: "host=localhost port=5432 user=postgres password=secretpass dbname=mydb sslmode=disable",
			want:    "host=local***de=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := maskConnectionString(tt.connStr)
			if got != tt.want {
				t.Errorf("maskConnectionString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColumnsToClause(t *testing.T) {
	columns := []string{"session_id", "token", "expires_at"}
	result := columnsToClause(columns)

	if len(result) != len(columns) {
		t.Errorf("columnsToClause() returned %d columns, want %d", len(result), len(columns))
	}

	for i, col := range columns {
		if result[i].Name != col {
			t.Errorf("columnsToClause()[%d].Name = %v, want %v", i, result[i].Name, col)
		}
	}
}

func TestSessionTokenTableName(t *testing.T) {
	if got := (SessionToken{}).TableName(); got != "portal_sessions" {
		t.Errorf("TableName() = %q, want portal_sessions", got)
	}
}
