package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agleymelo/daily-diet-api/client"
)

func newMealsCmd(g *globalFlags) *cobra.Command {
	mealsCmd := &cobra.Command{Use: "meals", Short: "Meal operations"}

	// create
	var in client.NewMeal
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Log a meal and print its id",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client(true)
			if err != nil {
				return err
			}
			id, err := c.CreateMeal(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	createCmd.Flags().StringVarP(&in.Name, "name", "n", "", "Meal name (required)")
	createCmd.Flags().StringVarP(&in.Description, "description", "d", "", "Description")
	createCmd.Flags().StringVar(&in.Date, "date", "", "Date, YYYY-MM-DD (required)")
	createCmd.Flags().BoolVar(&in.IsDiet, "diet", false, "Meal is within the diet")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("date")
	mealsCmd.AddCommand(createCmd)

	// list
	mealsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List meals, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client(true)
			if err != nil {
				return err
			}
			meals, err := c.ListMeals(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), meals)
		},
	})

	// get
	mealsCmd.AddCommand(&cobra.Command{
		Use:   "get MEAL_ID",
		Short: "Show one meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client(true)
			if err != nil {
				return err
			}
			m, err := c.GetMeal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m)
		},
	})

	// update
	var name, description, date string
	var diet bool
	updateCmd := &cobra.Command{
		Use:   "update MEAL_ID",
		Short: "Change some fields of a meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p client.MealPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = &name
			}
			if flags.Changed("description") {
				p.Description = &description
			}
			if flags.Changed("date") {
				p.Date = &date
			}
			if flags.Changed("diet") {
				p.IsDiet = &diet
			}
			if p == (client.MealPatch{}) {
				return fmt.Errorf("nothing to update; pass at least one of --name, --description, --date, --diet")
			}
			c, err := g.client(true)
			if err != nil {
				return err
			}
			return c.UpdateMeal(cmd.Context(), args[0], p)
		},
	}
	updateCmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	updateCmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	updateCmd.Flags().StringVar(&date, "date", "", "New date, YYYY-MM-DD")
	updateCmd.Flags().BoolVar(&diet, "diet", false, "Within the diet (use --diet=false to clear)")
	mealsCmd.AddCommand(updateCmd)

	// delete
	mealsCmd.AddCommand(&cobra.Command{
		Use:   "delete MEAL_ID",
		Short: "Delete a meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client(true)
			if err != nil {
				return err
			}
			return c.DeleteMeal(cmd.Context(), args[0])
		},
	})

	// metrics
	mealsCmd.AddCommand(&cobra.Command{
		Use:   "metrics",
		Short: "Show diet-adherence metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client(true)
			if err != nil {
				return err
			}
			m, err := c.Metrics(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m)
		},
	})

	return mealsCmd
}
