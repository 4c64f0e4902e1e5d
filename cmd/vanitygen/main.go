package main

import (
	"fmt"
	"os"
	"path/filepath"

	"VanityTools/internal/cli"
	"VanityTools/pkg/appcfg"
	"VanityTools/pkg/logx"
	"VanityTools/pkg/vanitygen"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "getwd: %v\n", err)
		os.Exit(2)
	}

	appConf, err := appcfg.Load(filepath.Join(cwd, "configs", "app.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config: %v (using defaults)\n", err)
		appConf = appcfg.Default()
	}

	if err := logx.Init(logx.Config{
		Level:                appConf.LogLevel,
		ConsoleOnly:          true,
		HideSecretsInConsole: appConf.HideSecretsInConsole,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "log init: %v\n", err)
		os.Exit(1)
	}
	defer logx.Close()

	client := vanitygen.Default()
	client.SetExecutable(appConf.Executable)
	if err := client.SetNetwork(appConf.Network); err != nil {
		logx.S().Fatalw("bad network in app config", "network", appConf.Network, "err", err)
	}
	if err := client.SetWorkDir(appConf.WorkDir); err != nil {
		logx.S().Fatalw("bad work_dir in app config", "work_dir", appConf.WorkDir, "err", err)
	}

	logx.S().Infow("vanitytools started",
		"cwd", cwd,
		"lang", appConf.Language,
		"log_level", appConf.LogLevel,
		"executable", client.Executable(),
		"network", client.Network(),
		"work_dir", client.WorkDir(),
		"hide_secrets_in_console", appConf.HideSecretsInConsole,
	)

	cli.NewRunner(appConf, client).Run()
}
