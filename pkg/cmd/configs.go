package cmd

import (
	"fmt"
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

const redacted = "******"

var (
	configCmd = &cobra.Command{
		Use:     "config",
		Short:   "inspect the effective configuration",
		Aliases: []string{"configs"},
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "print the config file in use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}

			used := configs.GetViper().ConfigFileUsed()
			if used == "" {
				used = "(none: defaults and " + configs.EnvPrefix + "_* env only)"
			}

			fmt.Fprintln(cmd.OutOrStdout(), used)

			return nil
		},
	}

	// 加载即校验，失败时返回非零退出码.
	configCheckCmd = &cobra.Command{
		Use:   "check",
		Short: "load and validate the configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "config ok: db=%s kv=%s mq=%s upload=%s\n",
				c.DB.Type.Canonical(), c.KV.Type, c.MQ.Type, c.Upload.Backend)

			return nil
		},
	}

	configDebugCmd = &cobra.Command{
		Use:   "debug",
		Short: "print the effective config with secrets redacted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}

			if debug {
				configs.GetViper().Debug()
			}

			b, err := sonic.ConfigStd.MarshalIndent(redact(*c), "", "  ")
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(b))

			return nil
		},
	}
)

// redact 返回凭据打码后的副本，连接串只隐去其中的密码.
func redact(c configs.AppConfig) configs.AppConfig {
	for _, s := range []*string{
		&c.Auth.JWTSecret,
		&c.Auth.AnonKey,
		&c.DB.Password,
		&c.S3.SecretAccessKey,
		&c.S3.SessionToken,
		&c.Upload.ContentHost.Token,
		&c.KV.Redis.Password,
		&c.KV.NATS.Password,
		&c.MQ.Common.Password,
		&c.MQ.Redis.Password,
		&c.MQ.NATS.JWT,
		&c.MQ.NATS.NKey,
	} {
		if *s != "" {
			*s = redacted
		}
	}

	for _, s := range []*string{&c.DB.DSN, &c.KV.Redis.URL, &c.MQ.Redis.URL, &c.MQ.Common.URL, &c.KV.NATS.URL} {
		*s = redactURL(*s)
	}

	return c
}

// redactURL 隐去 URL 中的密码；没有主机部分的 DSN 整体打码.
func redactURL(raw string) string {
	if raw == "" {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return redacted
	}

	return u.Redacted()
}

func registerConfigsCommands() {
	configCmd.AddCommand(configPathCmd, configCheckCmd, configDebugCmd)
	rootCmd.AddCommand(configCmd)
}
