package handler

import (
	"family-chores-go/internal/transport/httpserver/handler/admin"
	"family-chores-go/internal/transport/httpserver/handler/child"
	"family-chores-go/internal/transport/httpserver/handler/children"
	"family-chores-go/internal/transport/httpserver/handler/chores"
	"family-chores-go/internal/transport/httpserver/handler/families"
	"family-chores-go/internal/transport/httpserver/handler/goals"
	"family-chores-go/internal/transport/httpserver/handler/notifications"
)

type Handlers struct {
	Families      *families.Handlers
	Children      *children.Handlers
	Chores        *chores.Handlers
	Goals         *goals.Handlers
	Notifications *notifications.Handlers
	Child         *child.Handlers
	Admin         *admin.Handlers
}
