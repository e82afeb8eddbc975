package cmd

import (
	"context"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/roadmap-matcher/internal/dataset"
	"github.com/spigell/roadmap-matcher/internal/roadmap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Replace the imported roadmap templates with the current datasets",
	Run: func(cmd *cobra.Command, _ []string) {
		reload(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reloadCmd)

	reloadCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before replacing templates")

}

func reload(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := bootstrap()

	if err := requirePersistentStore(config.Database); err != nil {
		logger.Fatal("reload needs a persistent database", zap.Error(err))
	}

	st, err := openStore(ctx, config, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}
	defer st.Close()

	count, err := st.CountTemplates(ctx, roadmap.OriginBulkImport)
	if err != nil {
		logger.Fatal("counting templates", zap.Error(err))
	}
	logger.Info("current imported templates", zap.Int64("count", count), zap.Strings("datasets", config.Datasets))

	if count > 0 && cmd.Flag("yes").Value.String() == "false" {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Replace %d imported templates?", count),
			Items: []string{PromptYes, PromptNo},
		}
		_, answer, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if answer != PromptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	summary, err := dataset.NewLoader(logger).Reload(ctx, st, config.Datasets)
	if err != nil {
		logger.Fatal("reloading templates", zap.Error(err))
	}
	logSummary(logger, summary)
}
