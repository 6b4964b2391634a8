package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/zstar1003/Tosticker/internal/api"
	"github.com/zstar1003/Tosticker/internal/models"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage todos",
}

var todoAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new todo",
	RunE:  runTodoAdd,
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List todos",
	RunE:  runTodoList,
}

var todoShowCmd = &cobra.Command{
	Use:   "show [todo-id]",
	Short: "Show todo details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoShow,
}

var todoUpdateCmd = &cobra.Command{
	Use:   "update [todo-id]",
	Short: "Update fields of a todo",
	Long:  `Only the flags that are given are changed. Use the --clear-* flags to remove a description, due date or reminder.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoUpdate,
}

var todoDoneCmd = &cobra.Command{
	Use:   "done [todo-id]",
	Short: "Complete a todo (also archives it)",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoDone,
}

var todoRmCmd = &cobra.Command{
	Use:   "rm [todo-id]",
	Short: "Delete a todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoRm,
}

var (
	todoTitle       string
	todoDesc        string
	todoPriority    string
	todoDue         string
	todoRemind      string
	todoArchived    bool
	todoCompleted   bool
	todoClearDesc   bool
	todoClearDue    bool
	todoClearRemind bool
)

func init() {
	todoCmd.AddCommand(todoAddCmd, todoListCmd, todoShowCmd, todoUpdateCmd, todoDoneCmd, todoRmCmd)

	todoAddCmd.Flags().StringVar(&todoTitle, "title", "", "Todo title (required)")
	todoAddCmd.Flags().StringVar(&todoDesc, "desc", "", "Todo description")
	todoAddCmd.Flags().StringVar(&todoPriority, "priority", "", "Priority (high, medium, low)")
	todoAddCmd.Flags().StringVar(&todoDue, "due", "", "Due date (RFC3339, 2006-01-02 15:04 or 2006-01-02)")
	todoAddCmd.Flags().StringVar(&todoRemind, "remind", "", "Reminder time (RFC3339, 2006-01-02 15:04 or 2006-01-02)")
	todoAddCmd.MarkFlagRequired("title")

	todoListCmd.Flags().BoolVar(&todoArchived, "archived", false, "List archived todos instead of active ones")

	todoUpdateCmd.Flags().StringVar(&todoTitle, "title", "", "New title")
	todoUpdateCmd.Flags().StringVar(&todoDesc, "desc", "", "New description")
	todoUpdateCmd.Flags().StringVar(&todoPriority, "priority", "", "New priority")
	todoUpdateCmd.Flags().StringVar(&todoDue, "due", "", "New due date")
	todoUpdateCmd.Flags().StringVar(&todoRemind, "remind", "", "New reminder time")
	todoUpdateCmd.Flags().BoolVar(&todoCompleted, "completed", false, "Set the completed flag")
	todoUpdateCmd.Flags().BoolVar(&todoArchived, "archived", false, "Set the archived flag")
	todoUpdateCmd.Flags().BoolVar(&todoClearDesc, "clear-desc", false, "Remove the description")
	todoUpdateCmd.Flags().BoolVar(&todoClearDue, "clear-due", false, "Remove the due date")
	todoUpdateCmd.Flags().BoolVar(&todoClearRemind, "clear-remind", false, "Remove the reminder")
	todoUpdateCmd.MarkFlagsMutuallyExclusive("desc", "clear-desc")
	todoUpdateCmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	todoUpdateCmd.MarkFlagsMutuallyExclusive("remind", "clear-remind")
}

func runTodoAdd(cmd *cobra.Command, args []string) error {
	req := models.CreateTodoRequest{
		Title:    todoTitle,
		Priority: models.Priority(todoPriority),
	}
	if todoDesc != "" {
		req.Description = &todoDesc
	}

	var err error
	if req.DueDate, err = parseOptionalWhen(todoDue); err != nil {
		return fmt.Errorf("invalid --due: %w", err)
	}
	if req.ReminderAt, err = parseOptionalWhen(todoRemind); err != nil {
		return fmt.Errorf("invalid --remind: %w", err)
	}

	var todo models.Todo
	if err := callInto("create_todo", req, &todo); err != nil {
		return err
	}

	fmt.Printf("Created todo: %s\n", todo.ID)
	return nil
}

func runTodoList(cmd *cobra.Command, args []string) error {
	var todos []models.Todo
	if err := callInto("get_todos", api.ListTodosRequest{Archived: todoArchived}, &todos); err != nil {
		return err
	}

	if len(todos) == 0 {
		fmt.Println("No todos found")
		return nil
	}

	printTodos(todos)
	return nil
}

func printTodos(todos []models.Todo) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tDUE\tREMINDER\tPRIORITY")
	for _, t := range todos {
		title := truncate(t.Title, 40)
		if t.Completed {
			title = "[x] " + title
		}
		// Styled text goes in the last column so escape codes do not
		// disturb tabwriter alignment.
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncateID(t.ID), title, formatWhen(t.DueDate), formatWhen(t.ReminderAt), renderPriority(t.Priority))
	}
	w.Flush()
}

func runTodoShow(cmd *cobra.Command, args []string) error {
	var todo models.Todo
	if err := callInto("get_todo", api.IDRequest{ID: args[0]}, &todo); err != nil {
		return err
	}

	title := titleStyle.Render(todo.Title)
	if todo.Completed {
		title = doneStyle.Render(todo.Title)
	}
	fmt.Println(title)
	fmt.Printf("%s %s\n", label("ID:         "), todo.ID)
	if todo.Description != nil {
		fmt.Printf("%s %s\n", label("Description:"), *todo.Description)
	}
	fmt.Printf("%s %s\n", label("Priority:   "), renderPriority(todo.Priority))
	fmt.Printf("%s %s\n", label("Due:        "), formatWhen(todo.DueDate))
	fmt.Printf("%s %s\n", label("Reminder:   "), formatWhen(todo.ReminderAt))
	fmt.Printf("%s %t\n", label("Completed:  "), todo.Completed)
	fmt.Printf("%s %t\n", label("Archived:   "), todo.Archived)
	fmt.Printf("%s %s\n", label("Created:    "), formatWhen(&todo.CreatedAt))
	fmt.Printf("%s %s\n", label("Updated:    "), formatWhen(&todo.UpdatedAt))
	return nil
}

func runTodoUpdate(cmd *cobra.Command, args []string) error {
	req, err := buildUpdateRequest(cmd, args[0])
	if err != nil {
		return err
	}

	var todo models.Todo
	if err := callInto("update_todo", req, &todo); err != nil {
		return err
	}

	fmt.Printf("Updated todo %s\n", todo.ID)
	return nil
}

// buildUpdateRequest turns the flags that were explicitly given into a
// partial update.
func buildUpdateRequest(cmd *cobra.Command, id string) (models.UpdateTodoRequest, error) {
	req := models.UpdateTodoRequest{ID: id}
	flags := cmd.Flags()

	if flags.Changed("title") {
		req.Title = models.Some(todoTitle)
	}
	if flags.Changed("desc") {
		desc := todoDesc
		req.Description = models.Some(&desc)
	}
	if todoClearDesc {
		req.Description = models.Some[*string](nil)
	}
	if flags.Changed("priority") {
		req.Priority = models.Some(models.Priority(todoPriority))
	}
	if flags.Changed("due") {
		due, err := parseWhen(todoDue)
		if err != nil {
			return req, fmt.Errorf("invalid --due: %w", err)
		}
		req.DueDate = models.Some(&due)
	}
	if todoClearDue {
		req.DueDate = models.Some[*time.Time](nil)
	}
	if flags.Changed("remind") {
		at, err := parseWhen(todoRemind)
		if err != nil {
			return req, fmt.Errorf("invalid --remind: %w", err)
		}
		req.ReminderAt = models.Some(&at)
	}
	if todoClearRemind {
		req.ReminderAt = models.Some[*time.Time](nil)
	}
	if flags.Changed("completed") {
		req.Completed = models.Some(todoCompleted)
	}
	if flags.Changed("archived") {
		req.Archived = models.Some(todoArchived)
	}
	return req, nil
}

func runTodoDone(cmd *cobra.Command, args []string) error {
	var todo models.Todo
	if err := callInto("complete_todo", api.IDRequest{ID: args[0]}, &todo); err != nil {
		return err
	}

	fmt.Printf("Completed todo %s\n", todo.ID)
	return nil
}

func runTodoRm(cmd *cobra.Command, args []string) error {
	if err := callInto("delete_todo", api.IDRequest{ID: args[0]}, nil); err != nil {
		return err
	}

	fmt.Printf("Deleted todo %s\n", args[0])
	return nil
}

var whenLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseWhen accepts RFC3339 or a local date with optional time.
func parseWhen(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func parseOptionalWhen(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseWhen(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
