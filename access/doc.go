// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package access decides who may read, modify or delete a travel and the
// resources that hang off it (itineraries, place links, photos).
//
// Handlers resolve a child resource to its travel first and then call
// Gate.Authorize; stores never check permissions themselves.
package access
