// Package cmd 提供 smittan 命令行入口.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:           "smittan",
		Short:         "Smittan Vibrant Ventures site backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// loadConfig 按 --config 初始化全局配置，子命令在使用配置前调用.
func loadConfig() (*configs.AppConfig, error) {
	if err := configs.InitConfig(configPath); err != nil {
		return nil, err
	}

	return configs.GetConfig(), nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print verbose viper state")

	registerServeCommand()
	registerUploadCommand()
	registerConfigsCommands()
	registerDBCommands()
	registerKVCommands()
	registerMQCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
