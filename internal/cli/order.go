package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewOrderCmd создаёт команду order с подкомандами.
func NewOrderCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Управление заказами",
	}

	cmd.AddCommand(
		newOrderListCmd(clientFn, outputFn),
		newOrderCreateCmd(clientFn, outputFn),
		newOrderShowCmd(clientFn, outputFn),
		newOrderTasksCmd(clientFn, outputFn),
		newOrderCancelCmd(clientFn, outputFn),
	)

	return cmd
}

func newOrderListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var (
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список заказов",
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := clientFn().ListOrders(ListOrdersOpts{
				Status: status,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "SERVICE", "LINK", "QTY", "DELIVERED", "REMAINS", "STATUS"}
			rows := make([][]string, 0, len(orders))
			for _, o := range orders {
				rows = append(rows, []string{
					o.ID,
					o.ServiceType,
					truncate(o.Link, 40),
					strconv.Itoa(o.Quantity),
					strconv.Itoa(o.Delivered),
					strconv.Itoa(o.Remains),
					o.Status,
				})
			}

			outputFn().Print(headers, rows, orders)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "фильтр по статусу")
	cmd.Flags().IntVar(&limit, "limit", 50, "максимум заказов")

	return cmd
}

func newOrderCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var (
		serviceType string
		link        string
		quantity    int
		startCount  int
		chatType    string
		providerID  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать заказ",
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := clientFn().CreateOrder(CreateOrderRequest{
				ServiceType:     serviceType,
				Link:            link,
				ChatType:        chatType,
				Quantity:        quantity,
				StartCount:      startCount,
				ProviderOrderID: providerID,
			})
			if err != nil {
				return err
			}

			out := outputFn()
			out.Success(fmt.Sprintf("Заказ создан: %s", order.ID))
			out.Print(
				[]string{"ID", "SERVICE", "LINK", "QTY", "STATUS"},
				[][]string{{order.ID, order.ServiceType, truncate(order.Link, 40), strconv.Itoa(order.Quantity), order.Status}},
				order,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&serviceType, "service", "", "тип услуги: members, views, reactions, votes, bot_starts (обязательно)")
	cmd.Flags().StringVar(&link, "link", "", "ссылка на цель (обязательно)")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "объём заказа (обязательно)")
	cmd.Flags().IntVar(&startCount, "start-count", 0, "стартовое значение счётчика")
	cmd.Flags().StringVar(&chatType, "chat-type", "", "подсказка типа чата: channel или group")
	cmd.Flags().StringVar(&providerID, "provider-order-id", "", "идентификатор заказа у провайдера")
	cmd.MarkFlagRequired("service")
	cmd.MarkFlagRequired("link")
	cmd.MarkFlagRequired("quantity")

	return cmd
}

func newOrderShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show <order-id>",
		Short: "Показать заказ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := clientFn().GetOrder(args[0])
			if err != nil {
				return err
			}

			headers := []string{"FIELD", "VALUE"}
			rows := [][]string{
				{"ID", order.ID},
				{"Service", order.ServiceType},
				{"Link", order.Link},
				{"Quantity", strconv.Itoa(order.Quantity)},
				{"Start count", strconv.Itoa(order.StartCount)},
				{"Delivered", strconv.Itoa(order.Delivered)},
				{"Remains", strconv.Itoa(order.Remains)},
				{"Status", order.Status},
				{"Provider order", order.ProviderOrderID},
				{"Created", order.CreatedAt},
				{"Updated", order.UpdatedAt},
			}
			if order.LastError != "" {
				rows = append(rows, []string{"Last error", order.LastError})
			}

			outputFn().Print(headers, rows, order)
			return nil
		},
	}
}

func newOrderTasksCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks <order-id>",
		Short: "Задачи заказа",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := clientFn().ListOrderTasks(args[0])
			if err != nil {
				return err
			}

			headers := []string{"ID", "ACTION", "STATUS", "ATTEMPT", "LEASE EXPIRES"}
			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				rows = append(rows, []string{t.ID, t.Action, t.Status, strconv.Itoa(t.Attempt), t.LeaseExpiresAt})
			}

			outputFn().Print(headers, rows, tasks)
			return nil
		},
	}
}

func newOrderCancelCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Отменить заказ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := clientFn().CancelOrder(args[0])
			if err != nil {
				return err
			}

			out := outputFn()
			out.Success(fmt.Sprintf("Заказ %s отменён", order.ID))
			if out.jsonMode {
				out.JSON(order)
			}
			return nil
		},
	}
}

// truncate обрезает строку до n символов с многоточием.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
