package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"maps"
	"slices"

	"github.com/fatih/color"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"doorquote/collections"
	"doorquote/config"
	"doorquote/engine"
	"doorquote/handlers"
	"doorquote/services"
)

func main() {
	app := pocketbase.New()
	cfg := config.Load()

	collections.RegisterHooks(app)

	// Create collections, migrate and seed on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.MigrateAlwaysRequiredFlag(app); err != nil {
			log.Printf("Warning: always-required migration failed: %v", err)
		}
		if cfg.Seed {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.BindFunc(handlers.LocaleMiddleware(cfg.Locale))

		// ── Catalog ──────────────────────────────────────────────
		se.Router.GET("/api/categories/{categoryId}/parameters", handlers.HandleEffectiveParameters(app))
		se.Router.POST("/api/categories/{categoryId}/parameters/reorder", handlers.HandleCategoryParametersReorder(app))
		se.Router.POST("/api/parameters/{parameterId}/values/reorder", handlers.HandleParameterValuesReorder(app))
		se.Router.POST("/api/parameters/{parameterId}/values/import", handlers.HandleParameterValuesImport(app))

		// ── Configurations ───────────────────────────────────────
		se.Router.POST("/api/configurations/validate", handlers.HandleValidateConfiguration(app))
		se.Router.POST("/api/configurations/describe", handlers.HandleDescribeConfiguration(app))

		// ── Counterparties ───────────────────────────────────────
		se.Router.GET("/api/counterparties", handlers.HandleCounterpartyList(app))
		se.Router.POST("/api/counterparties", handlers.HandleCounterpartyCreate(app))

		// ── Proposals ────────────────────────────────────────────
		se.Router.POST("/api/proposals", handlers.HandleProposalCreate(app, cfg))
		se.Router.GET("/api/proposals/{id}/totals", handlers.HandleProposalTotals(app))
		se.Router.GET("/api/proposals/{id}/revalidate", handlers.HandleProposalRevalidate(app))

		// Groups (reorder must be before {groupId} routes)
		se.Router.POST("/api/proposals/{id}/groups/reorder", handlers.HandleGroupsReorder(app))
		se.Router.POST("/api/proposals/{id}/groups", handlers.HandleGroupCreate(app))
		se.Router.POST("/api/proposals/{id}/groups/{groupId}/vat", handlers.HandleGroupVAT(app))

		// Positions
		se.Router.POST("/api/proposals/{id}/groups/{groupId}/positions", handlers.HandlePositionCreate(app, cfg))
		se.Router.PATCH("/api/proposals/{id}/positions/{positionId}", handlers.HandlePositionUpdate(app))
		se.Router.DELETE("/api/proposals/{id}/positions/{positionId}", handlers.HandlePositionDelete(app))

		// Page and exports
		se.Router.GET("/proposals/{id}/export/excel", handlers.HandleProposalExportExcel(app, cfg))
		se.Router.GET("/proposals/{id}/export/pdf", handlers.HandleProposalExportPDF(app, cfg))
		se.Router.GET("/proposals/{id}", handlers.HandleProposalView(app))

		return se.Next()
	})

	app.RootCmd.AddCommand(revalidateCmd(app))
	app.RootCmd.AddCommand(describeCmd(app, cfg))

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// errStalePositions makes the revalidate command exit non-zero.
var errStalePositions = errors.New("some positions no longer validate")

func revalidateCmd(app *pocketbase.PocketBase) *cobra.Command {
	return &cobra.Command{
		Use:          "revalidate",
		Short:        "Check every stored position against the current catalog",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			collections.Setup(app)
			report, err := services.RevalidateProposals(app)
			if err != nil {
				return err
			}

			ok := color.New(color.FgGreen).SprintFunc()
			stale := color.New(color.FgRed, color.Bold).SprintFunc()
			note := color.New(color.FgYellow).SprintFunc()
			out := cmd.OutOrStdout()
			for _, p := range report.Positions {
				status := ok("OK   ")
				if !p.OK {
					status = stale("STALE")
				}
				fmt.Fprintf(out, "%s %s / %s / %s\n", status, p.ProposalNumber, p.GroupName, p.Description)
				if p.Reason != "" {
					fmt.Fprintf(out, "      %s\n", p.Reason)
				}
				for _, key := range slices.Sorted(maps.Keys(p.Errors)) {
					fmt.Fprintf(out, "      %s: %s\n", key, p.Errors[key])
				}
				if p.CurrentDescription != "" {
					fmt.Fprintf(out, "      %s %s\n", note("now:"), p.CurrentDescription)
				}
			}

			n := len(report.Stale())
			fmt.Fprintf(out, "%d positions checked, %d stale\n", len(report.Positions), n)
			if n > 0 {
				return errStalePositions
			}
			return nil
		},
	}
}

func describeCmd(app *pocketbase.PocketBase, cfg *config.Config) *cobra.Command {
	var categoryID, supplierID, linkID, rawConfig, locale, notes string

	cmd := &cobra.Command{
		Use:          "describe",
		Short:        "Validate a configuration and print its description",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			collections.Setup(app)
			var configuration engine.Configuration
			if err := json.Unmarshal([]byte(rawConfig), &configuration); err != nil {
				return fmt.Errorf("--config is not a JSON object: %w", err)
			}
			loc := cfg.Locale
			if locale != "" {
				loc = engine.ParseLocale(locale)
			}

			if linkID != "" {
				id, err := services.SupplierForLink(app, linkID, categoryID)
				if err != nil {
					return err
				}
				supplierID = id
			}
			if supplierID == "" {
				return errors.New("one of --supplier or --link is required")
			}
			params, err := services.ResolveParameters(app, categoryID, supplierID)
			if err != nil {
				return err
			}

			result := engine.Validate(params, configuration)
			if !result.OK {
				bad := color.New(color.FgRed).SprintFunc()
				for _, p := range params {
					if msg, ok := result.Errors[p.ID]; ok {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %s\n", bad("✗"), p.Label(loc), msg)
					}
				}
				if msg, ok := result.Errors[engine.FormErrorKey]; ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", bad("✗"), msg)
				}
				return errors.New("configuration is not valid")
			}
			fmt.Fprintln(cmd.OutOrStdout(), engine.Describe(params, configuration, loc, notes))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "category id")
	cmd.Flags().StringVar(&supplierID, "supplier", "", "supplier id")
	cmd.Flags().StringVar(&linkID, "link", "", "supplier-category link id (instead of --supplier)")
	cmd.Flags().StringVar(&rawConfig, "config", "{}", "configuration as a JSON object keyed by parameter id")
	cmd.Flags().StringVar(&locale, "locale", "", "output locale (en or it)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes appended to the description")
	cmd.MarkFlagRequired("category")

	return cmd
}
