package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bft-labs/practicepicker/internal/app"
	"github.com/bft-labs/practicepicker/internal/domain"
)

func newListCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all routines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), s.List())
				}
				return writeTable(cmd.OutOrStdout(), s.List())
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print routines as JSON")
	return cmd
}

func newCategoriesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List draw filter categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				for _, cat := range s.Categories() {
					fmt.Fprintln(cmd.OutOrStdout(), cat)
				}
				return nil
			})
		},
	}
}

// routineFlags binds the editable routine fields to cmd.
func routineFlags(cmd *cobra.Command, in *domain.RoutineInput, noDraw *bool) {
	cmd.Flags().StringVar(&in.Name, "name", "", "routine name (required)")
	cmd.Flags().StringVar(&in.Description, "description", "", "routine description")
	cmd.Flags().StringVar(&in.Category, "category", "", "category (default \"General\")")
	cmd.Flags().BoolVar(noDraw, "no-draw", false, "exclude from random draws")
}

func newAddCmd(c *cli) *cobra.Command {
	var in domain.RoutineInput
	var noDraw bool
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a routine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.InDraw = !noDraw
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				r, err := s.Create(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Routine added: %s (%s) [id %d]\n", r.Name, r.Category, r.ID)
				return nil
			})
		},
	}
	routineFlags(cmd, &in, &noDraw)
	return cmd
}

func newEditCmd(c *cli) *cobra.Command {
	var in domain.RoutineInput
	var noDraw bool
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a routine; unset flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				cur, ok := s.Get(id)
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "No routine with id %d.\n", id)
					return nil
				}
				merged := mergeInput(cmd, cur, in, noDraw)
				if _, err := s.Update(ctx, id, merged); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Routine updated.")
				return nil
			})
		},
	}
	routineFlags(cmd, &in, &noDraw)
	return cmd
}

// mergeInput overlays the flags the user set on the routine's current values.
func mergeInput(cmd *cobra.Command, cur domain.Routine, in domain.RoutineInput, noDraw bool) domain.RoutineInput {
	out := domain.RoutineInput{
		Name:        cur.Name,
		Description: cur.Description,
		Category:    cur.Category,
		InDraw:      cur.InDraw,
	}
	f := cmd.Flags()
	if f.Changed("name") {
		out.Name = in.Name
	}
	if f.Changed("description") {
		out.Description = in.Description
	}
	if f.Changed("category") {
		out.Category = in.Category
	}
	if f.Changed("no-draw") {
		out.InDraw = !noDraw
	}
	return out
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a routine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				if s.Delete(ctx, id) {
					fmt.Fprintln(cmd.OutOrStdout(), "Routine deleted.")
				}
				return nil
			})
		},
	}
}

func newDrawCmd(c *cli) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw a random routine that is in the draw and not done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				r, ok := s.DrawRandom(category)
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "No available routines in this category. Try resetting done flags or adding more.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "You should practice: %s (%s) [id %d]\n", r.Name, r.Category, r.ID)
				if r.Description != "" {
					fmt.Fprintln(cmd.OutOrStdout(), r.Description)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", domain.AllCategories, "limit the draw to one category")
	return cmd
}

func newDoneCmd(c *cli) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "done ID",
		Short: "Mark a routine as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				s.MarkDone(ctx, id, !undo)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "mark as not done instead")
	return cmd
}

func newResetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear every done flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				s.ResetDone(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), "All routines marked as not done.")
				return nil
			})
		},
	}
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid routine id %q", raw)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, routines []domain.Routine) error {
	if len(routines) == 0 {
		_, err := fmt.Fprintln(w, "No routines yet. Add one with `practicepicker add`.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tIN DRAW\tDONE\tDESCRIPTION\tID")
	for _, r := range routines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", r.Name, r.Category, yesNo(r.InDraw), yesNo(r.Done), r.Description, r.ID)
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
