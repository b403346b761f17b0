package dispatch

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shaiso/Gramflow/internal/domain"
	"github.com/shaiso/Gramflow/internal/policy"
	"github.com/shaiso/Gramflow/internal/tglink"
)

// PlanTask строит задачу для заказа: классифицирует ссылку, резолвит
// политику выполнения и собирает payload.
//
// Возвращает ErrUnsupportedCombo, если для пары (тип услуги, тип ссылки)
// политика не определена. Никакое действие «по догадке» не подставляется.
func PlanTask(order *domain.Order) (*domain.Task, error) {
	desc := tglink.Classify(order.Link)
	linkType := policy.LinkTypeFromInspection(desc, order.ChatType)

	pol, ok := policy.Resolve(order.ServiceType, linkType)
	if !ok {
		return nil, fmt.Errorf("%w: service=%s link_type=%s",
			ErrUnsupportedCombo, order.ServiceType, linkType)
	}

	// За один вызов воркер закрывает не больше остатка.
	perCall := pol.PerCall
	if order.Remains > 0 && order.Remains < perCall {
		perCall = order.Remains
	}

	payload := map[string]any{
		"link":         order.Link,
		"link_type":    linkType,
		"count":        perCall,
		"interval_sec": pol.IntervalSec,
	}
	if desc.Username != "" {
		payload["username"] = desc.Username
	}
	if desc.InviteHash != "" {
		payload["invite_hash"] = desc.InviteHash
	}
	if desc.PostID != 0 {
		payload["post_id"] = desc.PostID
	}
	if desc.StoryID != 0 {
		payload["story_id"] = desc.StoryID
	}
	if desc.InternalChatID != 0 {
		payload["internal_chat_id"] = desc.InternalChatID
	}
	if desc.StartParam != "" {
		payload["start_param"] = desc.StartParam
	}
	if pol.Action == "comment" {
		payload["text"] = pickCommentText(order.ID)
	}

	return &domain.Task{
		ID:      uuid.New(),
		OrderID: order.ID,
		Action:  pol.Action,
		Payload: payload,
		Status:  domain.TaskStatusPending,
	}, nil
}

// commentTexts — пул нейтральных текстов для заказов комментариев,
// у которых нет собственного текста.
var commentTexts = []string{
	"Отличный пост 👍",
	"Интересно, спасибо!",
	"Полезно 🔥",
	"Согласен с автором",
	"Хороший материал",
}

// pickCommentText детерминированно выбирает текст из пула по заказу:
// все задачи одного заказа получают один и тот же текст.
func pickCommentText(orderID uuid.UUID) string {
	var sum int
	for _, b := range orderID {
		sum += int(b)
	}
	return commentTexts[sum%len(commentTexts)]
}
