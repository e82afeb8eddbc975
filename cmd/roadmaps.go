package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/roadmap-matcher/internal/dataset"
	"github.com/spigell/roadmap-matcher/internal/engine"
	"github.com/spigell/roadmap-matcher/internal/roadmap"
	"github.com/spigell/roadmap-matcher/internal/store"
)

var roadmapsCmd = &cobra.Command{
	Use:   "roadmaps",
	Short: "Query and manage stored roadmaps",
}

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List the domains of the imported templates",
	Run: func(cmd *cobra.Command, _ []string) {
		withEngine(cmd, false, func(ctx context.Context, eng *engine.Engine) (any, error) {
			domains, err := eng.ListDomains(ctx)
			return map[string]any{"domains": domains}, err
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List user roadmaps, most recently updated first",
	Run: func(cmd *cobra.Command, _ []string) {
		withEngine(cmd, true, func(ctx context.Context, eng *engine.Engine) (any, error) {
			user, _ := cmd.Flags().GetString("user")
			if strings.TrimSpace(user) != "" {
				roadmaps, err := eng.ListUserRoadmaps(ctx, user)
				return map[string]any{"roadmaps": roadmaps}, err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			skip, _ := cmd.Flags().GetInt("skip")
			roadmaps, total, err := eng.ListAllUserRoadmaps(ctx, limit, skip)
			return map[string]any{"roadmaps": roadmaps, "total": total, "limit": limit, "skip": skip}, err
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user roadmap",
	Run: func(cmd *cobra.Command, _ []string) {
		withEngine(cmd, true, func(ctx context.Context, eng *engine.Engine) (any, error) {
			id, _ := cmd.Flags().GetString("id")
			user, _ := cmd.Flags().GetString("user")
			if err := eng.DeleteUserRoadmap(ctx, id, user); err != nil {
				return nil, err
			}
			return map[string]any{"message": "Roadmap deleted successfully", "id": id}, nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export templates and user roadmaps to an .xlsx workbook",
	Run: func(cmd *cobra.Command, _ []string) {
		withEngine(cmd, false, func(ctx context.Context, eng *engine.Engine) (any, error) {
			output, _ := cmd.Flags().GetString("output")
			if !strings.EqualFold(filepath.Ext(output), ".xlsx") {
				return nil, fmt.Errorf("output must be an .xlsx file: %s", output)
			}

			templates, err := eng.Store().ListTemplates(ctx, store.TemplateFilter{})
			if err != nil {
				return nil, err
			}
			roadmaps, err := allUserRoadmaps(ctx, eng)
			if err != nil {
				return nil, err
			}
			if err := dataset.WriteXLSX(output, templates, roadmaps); err != nil {
				return nil, err
			}
			return map[string]any{"output": output, "templates": len(templates), "user_roadmaps": len(roadmaps)}, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(roadmapsCmd)
	roadmapsCmd.AddCommand(domainsCmd, listCmd, deleteCmd, exportCmd)

	listCmd.Flags().StringP("user", "u", "", "list roadmaps of this user only")
	listCmd.Flags().Int("limit", engine.DefaultPageLimit, "page size when listing all roadmaps")
	listCmd.Flags().Int("skip", 0, "number of roadmaps to skip when listing all roadmaps")

	deleteCmd.Flags().String("id", "", "roadmap id")
	deleteCmd.Flags().StringP("user", "u", "", "owner of the roadmap")
	deleteCmd.MarkFlagRequired("id")
	deleteCmd.MarkFlagRequired("user")

	exportCmd.Flags().StringP("output", "o", "roadmaps.xlsx", "workbook to write")
}

func allUserRoadmaps(ctx context.Context, eng *engine.Engine) ([]roadmap.UserRoadmap, error) {
	var out []roadmap.UserRoadmap
	for {
		page, total, err := eng.ListAllUserRoadmaps(ctx, engine.DefaultPageLimit, len(out))
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) == 0 || int64(len(out)) >= total {
			return out, nil
		}
	}
}

// withEngine opens the store, runs fn and prints its result as JSON. Failures are fatal.
// Commands working on user roadmaps set persistent to refuse in-memory stores.
func withEngine(cmd *cobra.Command, persistent bool, fn func(ctx context.Context, eng *engine.Engine) (any, error)) {
	ctx := context.Background()

	logger, config := bootstrap()

	if persistent {
		if err := requirePersistentStore(config.Database); err != nil {
			logger.Fatal(cmd.CommandPath()+" needs a persistent database", zap.Error(err))
		}
	}

	st, err := openAndImport(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the store", zap.Error(err))
	}
	defer st.Close()

	out, err := fn(ctx, engine.New(st, nil, logger))
	if err != nil {
		logger.Fatal(cmd.CommandPath(), zap.Error(err))
	}

	if err := printJSON(cmd.OutOrStdout(), out); err != nil {
		logger.Fatal("printing the result", zap.Error(err))
	}
}
