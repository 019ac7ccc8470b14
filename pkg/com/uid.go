package com

import "github.com/rs/xid"

// NewUid mints a short sortable identifier for matching responses to
// in-flight calls.
func NewUid() string { return xid.New().String() }
