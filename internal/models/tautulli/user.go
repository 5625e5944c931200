// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package tautulli

// TautulliUsers represents the API response from Tautulli's get_users endpoint
type TautulliUsers struct {
	Response TautulliUsersResponse `json:"response"`
}

type TautulliUsersResponse struct {
	Result  string             `json:"result"`
	Message *string            `json:"message,omitempty"`
	Data    []TautulliUserInfo `json:"data"`
}

type TautulliUserInfo struct {
	UserID       FlexInt `json:"user_id"`
	Username     string  `json:"username"`
	FriendlyName string  `json:"friendly_name"`
	UserThumb    string  `json:"user_thumb"`
	Email        string  `json:"email"`
	IsActive     FlexInt `json:"is_active"`
	IsAdmin      FlexInt `json:"is_admin"`
	IsHomeUser   FlexInt `json:"is_home_user"`
	IsAllowSync  FlexInt `json:"is_allow_sync"`
	IsRestricted FlexInt `json:"is_restricted"`
	DoNotify     FlexInt `json:"do_notify"`
	KeepHistory  FlexInt `json:"keep_history"`
	AllowGuest   FlexInt `json:"allow_guest"`
}
