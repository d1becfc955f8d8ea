package dto

import "time"

type ScheduleListDTO struct {
	ID         uint      `json:"id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	MemberID   uint      `json:"member_id"`
	MemberName string    `json:"member_name"`
	PTID       *uint     `json:"pt_id"`
	PTName     string    `json:"pt_name"`
	Note       string    `json:"note"`
}
