package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/service"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/upload"
)

// uploadCmd 以服务身份上传本地文件，输出对象描述.
var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "upload a local file to the configured backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cfg.Auth.ServiceUserID == "" {
			return fmt.Errorf("auth.service_user_id is required for CLI uploads")
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		mgr, err := storage.Init(cmd.Context())
		if err != nil {
			return err
		}
		defer mgr.Close()

		svc, err := service.New(cfg, mgr)
		if err != nil {
			return err
		}

		name := filepath.Base(args[0])
		desc, err := svc.Uploader.Upload(cmd.Context(), admin.Service(cfg.Auth.ServiceUserID), upload.Request{
			Data:        data,
			FileName:    name,
			ContentType: mime.TypeByExtension(filepath.Ext(name)),
		})
		if err != nil {
			return err
		}

		b, err := sonic.ConfigStd.MarshalIndent(desc, "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(b))

		return nil
	},
}

func registerUploadCommand() {
	rootCmd.AddCommand(uploadCmd)
}
