// Package protocol encodes requests for, and decodes responses from, the
// remote file-sharing service.
//
// # Wire format
//
// Metadata travels out of band in custom headers; bodies carry only file
// bytes. Targets are formed by appending the decimal file identifier to the
// caller's endpoint, so endpoints normally end with a slash.
//
//	Metadata  HEAD   {endpoint}{id}                    -> FileName, FileSize
//	Upload    POST   {endpoint}  FileName: {prefix}{n} -> FileId
//	Download  GET    {endpoint}{id}                    -> FileName + bytes
//	Delete    DELETE {endpoint}{id}                    -> status only
//
// Names on the wire always carry the five-character unique prefix from
// package naming; the parsers strip it before returning names to callers.
//
// # Errors
//
// A non-2xx status becomes *StatusError. A 2xx response that lacks a
// required header, or carries one that cannot be parsed, becomes
// *ProtocolError wrapping ErrIdentifierHeaderNotFound, ErrHeaderNotFound,
// ErrMalformedHeader or naming.ErrNameTooShort.
package protocol
