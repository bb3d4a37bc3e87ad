package kafka

const (
	TopicQueueJoined   = "queue.joined"
	TopicQueueLeft     = "queue.left"
	TopicQueueAdmitted = "queue.admitted"

	TopicReservationCreated = "reservation.created"
)
