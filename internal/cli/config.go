package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/captains-log/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or write settings",
}

func init() {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings",
		Run:   runConfigShow,
	}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		Run:   runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")

	configCmd.AddCommand(showCmd, initCmd)
	RootCmd.AddCommand(configCmd)
}

func configFile() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

func runConfigShow(cmd *cobra.Command, args []string) {
	if textOutput() {
		fmt.Printf("file:            %s\n", configFile())
		fmt.Printf("db:              %s\n", cfg.DB)
		fmt.Printf("language:        %s\n", cfg.Language)
		fmt.Printf("recording_limit: %s\n", cfg.RecordingLimit)
		fmt.Printf("recognizer:      %s\n", cfg.Recognizer)
		fmt.Printf("socket:          %s\n", cfg.Socket)
		fmt.Printf("sound:           %t\n", cfg.Sound)
		fmt.Printf("folder:          %s\n", cfg.Folder)
		return
	}
	printJSON(map[string]any{
		"file":           configFile(),
		"db":             cfg.DB,
		"language":       cfg.Language,
		"recordingLimit": cfg.RecordingLimit.String(),
		"recognizer":     cfg.Recognizer,
		"socket":         cfg.Socket,
		"sound":          cfg.Sound,
		"folder":         cfg.Folder,
	})
}

func runConfigInit(cmd *cobra.Command, args []string) {
	force, _ := cmd.Flags().GetBool("force")
	path := configFile()

	if _, err := os.Stat(path); err == nil && !force {
		exitErr("config init", fmt.Errorf("%s exists (use --force)", path))
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		exitErr("config init", err)
	}
	if err := config.Save(path, config.Default()); err != nil {
		exitErr("config init", err)
	}
	printJSON(map[string]any{"ok": true, "path": path})
}
