package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/cache"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/service"
	kv "github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/kv"
)

// withSiteCache 打开配置中的 KV 并以站点读缓存的命名空间包装.
func withSiteCache(ctx context.Context, fn func(*cache.Cache) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := kv.NewKVClient(ctx, &cfg.KV)
	if err != nil {
		return err
	}
	defer client.Close()

	return fn(cache.NewCache(client, cache.WithNamespace(service.CacheNamespace)))
}

var (
	kvCmd = &cobra.Command{
		Use:     "kv",
		Short:   "key-value store and read cache commands",
		Aliases: []string{"cache"},
	}

	kvListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list compiled-in kv backends",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, _ []string) {
			for _, t := range kv.GetRegisteredKVTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
		},
	}

	kvKeysCmd = &cobra.Command{
		Use:   "keys [pattern]",
		Short: "list live cache keys, optionally filtered by a glob",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}

			return withSiteCache(cmd.Context(), func(c *cache.Cache) error {
				keys, err := c.Keys(cmd.Context(), pattern)
				if err != nil {
					return err
				}

				slices.Sort(keys)

				for _, k := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}

				return nil
			})
		},
	}

	kvFlushCmd = &cobra.Command{
		Use:   "flush-cache [pattern]",
		Short: "drop cached gallery, company and careers reads",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}

			return withSiteCache(cmd.Context(), func(c *cache.Cache) error {
				n, err := c.DeletePattern(cmd.Context(), pattern)
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached entries\n", n)

				return err
			})
		},
	}
)

func registerKVCommands() {
	rootCmd.AddCommand(kvCmd)
	kvCmd.AddCommand(kvListCmd, kvKeysCmd, kvFlushCmd)
}
