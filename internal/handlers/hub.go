package handlers

import (
	"database/sql"
	"strconv"

	ws "github.com/AchyuthKolli/rummy-multiplayerai/pkg/websocket"
)

// hubProvider is set by main at startup so HTTP handlers can broadcast
// realtime updates.
var hubProvider func() (*ws.Hub, bool)

func SetHubProvider(p func() (*ws.Hub, bool)) {
	hubProvider = p
}

// broadcastTableUpdate pushes the public table snapshot to the table's room.
// Hands are never included; clients refetch their own hand over HTTP.
func broadcastTableUpdate(db *sql.DB, tableID int64) {
	if hubProvider == nil {
		return
	}
	hub, ok := hubProvider()
	if !ok || hub == nil {
		return
	}
	snap, err := buildTableSnapshot(db, tableID)
	if err != nil {
		return
	}
	hub.Broadcast("table:"+strconv.FormatInt(tableID, 10), "table_update", snap)
}
