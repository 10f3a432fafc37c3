// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import "net/url"

// Route pattern constants for chi router registration.
const (
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteAdmin is the dashboard root.
	RouteAdmin = "/admin"

	// RouteEntityCreate is the create form of an entity.
	RouteEntityCreate = "/{entity}/create"
	// RouteEntityEdit is the edit form of a record.
	RouteEntityEdit = "/{entity}/edit/{id}"
	// RouteEntityID is the detail page of a record.
	RouteEntityID = "/{entity}/{id}"
	// RouteEntityDelete is the delete confirmation of a record.
	RouteEntityDelete = "/{entity}/{id}/delete"

	// RouteUploads is the JSON upload endpoint.
	RouteUploads = "/uploads"
	// RouteMaintenanceStatus reports the maintenance flag.
	RouteMaintenanceStatus = "/maintenance/status"
	// RouteMaintenanceToggle flips the maintenance flag.
	RouteMaintenanceToggle = "/maintenance/toggle"
	// RouteMaintenanceMessage sets the maintenance message.
	RouteMaintenanceMessage = "/maintenance/message"
)

// Template names.
const (
	tmplDashboard = "admin/dashboard"
	tmplDetail    = "admin/detail"
	tmplDelete    = "admin/delete"
	tmplForm      = "admin/form"
	tmplLogin     = "auth/login"
)

// fileSuffix names the multipart file input that goes with a URL field.
const fileSuffix = "_file"

func listURL(segment string) string {
	return RouteAdmin + "?" + url.Values{"tab": {segment}}.Encode()
}

func detailURL(segment, id string) string {
	return RouteAdmin + "/" + segment + "/" + url.PathEscape(id)
}

func editURL(segment, id string) string {
	return RouteAdmin + "/" + segment + "/edit/" + url.PathEscape(id)
}

func createURL(segment string) string {
	return RouteAdmin + "/" + segment + "/create"
}

func deleteURL(segment, id string) string {
	return detailURL(segment, id) + "/delete"
}
