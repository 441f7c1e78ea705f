package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/agleymelo/daily-diet-api/client"
)

// MealHandler exposes meal CRUD and the diet_metrics tool.
type MealHandler struct {
	client *client.Client
}

// NewMealHandler returns a new handler.
func NewMealHandler(c *client.Client) *MealHandler {
	return &MealHandler{client: c}
}

// RegisterTools registers meal tools with the MCP server.
func (mh *MealHandler) RegisterTools(s *server.MCPServer) error {
	s.AddTool(mcp.NewTool("log_meal",
		mcp.WithDescription("Log a meal for the registered user"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Meal name")),
		mcp.WithString("description", mcp.Description("What was eaten")),
		mcp.WithString("date", mcp.Required(), mcp.Description("Date as YYYY-MM-DD")),
		mcp.WithBoolean("is_diet", mcp.Required(), mcp.Description("Whether the meal is within the diet")),
	), mh.handleLogMeal)

	s.AddTool(mcp.NewTool("list_meals",
		mcp.WithDescription("List the user's meals, oldest date first"),
	), mh.handleListMeals)

	s.AddTool(mcp.NewTool("get_meal",
		mcp.WithDescription("Fetch one meal"),
		mcp.WithString("meal_id", mcp.Required(), mcp.Description("Meal UUID")),
	), mh.handleGetMeal)

	s.AddTool(mcp.NewTool("update_meal",
		mcp.WithDescription("Change any subset of a meal's name, description, date and is_diet"),
		mcp.WithString("meal_id", mcp.Required(), mcp.Description("Meal UUID")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("date", mcp.Description("New date as YYYY-MM-DD")),
		mcp.WithBoolean("is_diet", mcp.Description("New diet flag")),
	), mh.handleUpdateMeal)

	s.AddTool(mcp.NewTool("delete_meal",
		mcp.WithDescription("Delete a meal"),
		mcp.WithString("meal_id", mcp.Required(), mcp.Description("Meal UUID")),
	), mh.handleDeleteMeal)

	s.AddTool(mcp.NewTool("diet_metrics",
		mcp.WithDescription("Total meals, on-diet and off-diet counts and the best on-diet streak"),
	), mh.handleMetrics)

	return nil
}

func (mh *MealHandler) handleLogMeal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	isDiet, err := req.RequireBool("is_diet")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := client.NewMeal{
		Name:        name,
		Description: req.GetString("description", ""),
		Date:        date,
		IsDiet:      isDiet,
	}

	start := time.Now()
	id, err := mh.client.CreateMeal(ctx, in)
	if err != nil {
		return toolError("log_meal", err), nil
	}
	log.Debug().Str("meal_id", id).Dur("elapsed", time.Since(start)).Msg("log_meal completed")
	return mcp.NewToolResultText(id), nil
}

func (mh *MealHandler) handleListMeals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	meals, err := mh.client.ListMeals(ctx)
	if err != nil {
		return toolError("list_meals", err), nil
	}
	return jsonResult(meals)
}

func (mh *MealHandler) handleGetMeal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("meal_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := mh.client.GetMeal(ctx, id)
	if err != nil {
		return toolError("get_meal", err), nil
	}
	return jsonResult(m)
}

func (mh *MealHandler) handleUpdateMeal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("meal_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := req.GetArguments()
	var p client.MealPatch
	if v, ok := args["name"].(string); ok {
		p.Name = &v
	}
	if v, ok := args["description"].(string); ok {
		p.Description = &v
	}
	if v, ok := args["date"].(string); ok {
		p.Date = &v
	}
	if v, ok := args["is_diet"].(bool); ok {
		p.IsDiet = &v
	}
	if p == (client.MealPatch{}) {
		return mcp.NewToolResultError("provide at least one of name, description, date, is_diet"), nil
	}
	if err := mh.client.UpdateMeal(ctx, id, p); err != nil {
		return toolError("update_meal", err), nil
	}
	return mcp.NewToolResultText("updated"), nil
}

func (mh *MealHandler) handleDeleteMeal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("meal_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := mh.client.DeleteMeal(ctx, id); err != nil {
		return toolError("delete_meal", err), nil
	}
	return mcp.NewToolResultText("deleted"), nil
}

func (mh *MealHandler) handleMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, err := mh.client.Metrics(ctx)
	if err != nil {
		return toolError("diet_metrics", err), nil
	}
	return jsonResult(m)
}

func toolError(tool string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, client.ErrNotFound):
		return mcp.NewToolResultError("meal not found")
	case errors.Is(err, client.ErrUnauthorized):
		return mcp.NewToolResultError("no session; call register_user first or set DAILY_DIET_SESSION")
	}
	log.Error().Err(err).Str("tool", tool).Msg("tool call failed")
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", tool, err))
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}
