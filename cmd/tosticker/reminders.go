package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"github.com/zstar1003/Tosticker/internal/events"
	"github.com/zstar1003/Tosticker/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show todo counts",
	RunE:  runStats,
}

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "List todos whose reminder is due",
	Long:  `Lists todos whose reminder is due now. With --watch, stays connected and prints every todo-reminder event the backend emits.`,
	RunE:  runReminders,
}

var remindersWatch bool

func init() {
	remindersCmd.Flags().BoolVar(&remindersWatch, "watch", false, "Stream reminder events until interrupted")
}

func runStats(cmd *cobra.Command, args []string) error {
	var stats models.TodoStats
	if err := callInto("get_todo_stats", nil, &stats); err != nil {
		return err
	}

	fmt.Printf("%s %d\n", label("Total:    "), stats.Total)
	fmt.Printf("%s %d\n", label("Pending:  "), stats.Pending)
	fmt.Printf("%s %d\n", label("Completed:"), stats.Completed)
	fmt.Printf("%s %d\n", label("Archived: "), stats.Archived)
	return nil
}

func runReminders(cmd *cobra.Command, args []string) error {
	if remindersWatch {
		return watchReminders()
	}

	var todos []models.Todo
	if err := callInto("get_todos_with_reminders", nil, &todos); err != nil {
		return err
	}

	if len(todos) == 0 {
		fmt.Println("No reminders due")
		return nil
	}
	printTodos(todos)
	return nil
}

func watchReminders() error {
	conn, _, err := websocket.DefaultDialer.Dial(eventsURL(), nil)
	if err != nil {
		return fmt.Errorf("connect to event stream: %w", err)
	}
	defer conn.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	stopped := make(chan struct{})
	go func() {
		<-sigCh
		close(stopped)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}()

	fmt.Println("Watching for reminders (Ctrl+C to stop)...")
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-stopped:
				return nil
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("event stream closed: %w", err)
		}

		var ev struct {
			Event   string      `json:"event"`
			Payload models.Todo `json:"payload"`
		}
		if err := json.Unmarshal(data, &ev); err != nil || ev.Event != events.EventTodoReminder {
			continue
		}
		fmt.Printf("%s %s %s (%s)\n",
			alertStyle.Render("⏰"),
			time.Now().Format("15:04"),
			ev.Payload.Title,
			renderPriority(ev.Payload.Priority))
	}
}
