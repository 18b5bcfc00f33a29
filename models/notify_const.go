package models

import "fmt"

// шаблоны сообщений для WhatsApp-бота, %v - протокол заявки
var NotifyStatusMsg = map[RequestStatus]string{
	RequestStatusInReview: "Ваша заявка %v принята в работу.",
	RequestStatusApproved: "Ваша заявка %v одобрена.",
	RequestStatusRejected: "Ваша заявка %v отклонена.",
}

func NotifyText(status RequestStatus, protocol string) string {
	if status == RequestStatusCompleted {
		status = RequestStatusApproved
	}
	tpl, ok := NotifyStatusMsg[status]
	if !ok {
		return ""
	}
	return fmt.Sprintf(tpl, protocol)
}
