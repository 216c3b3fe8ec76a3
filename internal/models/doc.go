// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

/*
Package models defines the data structures shared by the store, the REST API
and the WebSocket relay.

Entities use camelCase JSON names because browser clients consume them
unchanged, both from REST responses and inside relay broadcasts
({"type":"new_message","data":<Communication>}).

Each entity has an Input type for creation and, where the API allows partial
updates, a Patch type whose nil fields are left untouched. Input and Patch
types carry validator tags checked by internal/validation.

The APIResponse envelope wraps every HTTP response.
*/
package models
