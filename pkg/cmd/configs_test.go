package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

// TestRedact 凭据打码，连接串只隐去密码.
func TestRedact(t *testing.T) {
	var c configs.AppConfig
	c.Auth.JWTSecret = "s3cret"
	c.Upload.ContentHost.Token = "tok"
	c.KV.Redis.URL = "redis://:hunter2@cache:6379/0"
	c.DB.DSN = "site:hunter2@tcp(db:3306)/smittan"
	c.MQ.NATS.NKey = ""

	out := redact(c)

	assert.Equal(t, redacted, out.Auth.JWTSecret)
	assert.Equal(t, redacted, out.Upload.ContentHost.Token)
	assert.Equal(t, "redis://:xxxxx@cache:6379/0", out.KV.Redis.URL)
	assert.Equal(t, redacted, out.DB.DSN)
	assert.Empty(t, out.MQ.NATS.NKey)
	assert.Equal(t, "s3cret", c.Auth.JWTSecret)
}
