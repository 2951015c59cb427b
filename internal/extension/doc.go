// Package extension holds the customization hooks registered with the host at
// startup: BeforeStartService contributes the role resource routes and
// ModifyAdapterHandlers decorates the host checkToken handler with the token expiry.
package extension
