package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "WDGS", cfg.Billing.InvoicePrefix)
	assert.Equal(t, time.Duration(0), cfg.Billing.SweepInterval)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "Asia/Kolkata", cfg.Billing.Location().String())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "memory")
	v.Set("HTTP_PORT", "9090")
	v.Set("SWEEP_INTERVAL", "15m")
	v.Set("INVOICE_PREFIX", "ACME")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 15*time.Minute, cfg.Billing.SweepInterval)
	assert.Equal(t, "ACME", cfg.Billing.InvoicePrefix)
}

func TestFromViper_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "mongo")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("SWEEP_INTERVAL", "often")
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_InvalidTimezone(t *testing.T) {
	v := viper.New()
	v.Set("BUSINESS_TIMEZONE", "Mars/Olympus")
	_, err := fromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BUSINESS_TIMEZONE")
}

func TestFromViper_Timezone(t *testing.T) {
	v := viper.New()
	v.Set("BUSINESS_TIMEZONE", "Europe/London")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", cfg.Billing.Location().String())
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "inv", SSLMode: "disable"}

	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/inv?sslmode=disable", c.ConnectionString())
}

func TestBillingConfig_LocationWithoutLoad(t *testing.T) {
	assert.Equal(t, time.UTC, BillingConfig{}.Location())
}

func TestLoadCompanyProfile(t *testing.T) {
	def, err := LoadCompanyProfile("")
	require.NoError(t, err)
	assert.Equal(t, "Tamil Nadu", def.State)

	path := filepath.Join(t.TempDir(), "company.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Acme Design\nstate: Karnataka\nupi_id: acme@upi\n"), 0o600))

	p, err := LoadCompanyProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme Design", p.Name)
	assert.Equal(t, "Karnataka", p.State)
	assert.Equal(t, "acme@upi", p.UPIID)
	assert.Equal(t, "33EHSPA2932N1Z2", p.GSTIN, "unset fields keep defaults")
}

func TestLoadCompanyProfile_RejectsUnknownState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "company.yaml")
	require.NoError(t, os.WriteFile(path, []byte("state: TN\n"), 0o600))

	_, err := LoadCompanyProfile(path)
	assert.Error(t, err)
}
