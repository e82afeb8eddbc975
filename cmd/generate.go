package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/roadmap-matcher/internal/engine"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a roadmap for a goal and print it as JSON",
	Run: func(cmd *cobra.Command, _ []string) {
		generate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("goal", "g", "", "learning goal, e.g. \"Become a Frontend Developer\"")
	generateCmd.Flags().String("domain", "", "preferred domain")
	generateCmd.Flags().StringP("user", "u", "", "owner of the generated roadmap (anonymous when empty)")
	generateCmd.Flags().Bool("explain", false, "print the per-signal score breakdown instead of saving a roadmap")

	generateCmd.MarkFlagRequired("goal")
}

func generate(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := bootstrap()

	st, err := openAndImport(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the store", zap.Error(err))
	}
	defer st.Close()

	eng := engine.New(st, nil, logger)

	flags := cmd.Flags()
	goal, _ := flags.GetString("goal")
	domain, _ := flags.GetString("domain")
	user, _ := flags.GetString("user")
	explain, _ := flags.GetBool("explain")
	req := engine.Request{Goal: goal, Domain: domain, UserID: user}

	var out any
	if explain {
		out, err = eng.Explain(ctx, req)
	} else {
		out, err = eng.GenerateRoadmap(ctx, req)
	}
	if err != nil {
		logger.Fatal("generating a roadmap", zap.Error(err))
	}

	if err := printJSON(cmd.OutOrStdout(), out); err != nil {
		logger.Fatal("printing the result", zap.Error(err))
	}
}
