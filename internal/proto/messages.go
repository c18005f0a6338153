package proto

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// Struct field names.
const (
	FieldEmail         = "email"
	FieldPassword      = "password"
	FieldPubKey        = "pubkey"
	FieldIdentities    = "identities"
	FieldUnknownEmails = "unknown_emails"
	FieldKeyRefresh    = "key_refresh"
)

// StageUserRequest builds the StageUser argument.
func StageUserRequest(email, password, pubkey string) *structpb.Struct {
	return stringStruct(map[string]string{
		FieldEmail:    email,
		FieldPassword: password,
		FieldPubKey:   pubkey,
	})
}

// StageEmailRequest builds the StageEmail argument.
func StageEmailRequest(email, pubkey string) *structpb.Struct {
	return stringStruct(map[string]string{
		FieldEmail:  email,
		FieldPubKey: pubkey,
	})
}

// LoginRequest builds the Login argument.
func LoginRequest(email, password string) *structpb.Struct {
	return stringStruct(map[string]string{
		FieldEmail:    email,
		FieldPassword: password,
	})
}

// SyncRequest builds the Sync argument from address → key bindings.
func SyncRequest(identities map[string]string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldIdentities: structpb.NewStructValue(stringStruct(identities)),
	}}
}

// SyncResponse builds the Sync result.
func SyncResponse(unknownEmails, keyRefresh []string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldUnknownEmails: stringList(unknownEmails),
		FieldKeyRefresh:    stringList(keyRefresh),
	}}
}

// String returns the string field name of s. A missing field reads as "";
// a field of another kind is an error.
func String(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", nil
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %q is not a string", name)
	}
	return sv.StringValue, nil
}

// StringMap returns the nested struct field name of s as a map of strings.
func StringMap(s *structpb.Struct, name string) (map[string]string, error) {
	out := map[string]string{}
	v, ok := s.GetFields()[name]
	if !ok {
		return out, nil
	}
	nested := v.GetStructValue()
	if nested == nil {
		return nil, fmt.Errorf("field %q is not a struct", name)
	}
	for k := range nested.GetFields() {
		str, err := String(nested, k)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[k] = str
	}
	return out, nil
}

// StringSlice returns the list field name of s as strings.
func StringSlice(s *structpb.Struct, name string) ([]string, error) {
	out := []string{}
	v, ok := s.GetFields()[name]
	if !ok {
		return out, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("field %q is not a list", name)
	}
	for i, item := range list.GetValues() {
		sv, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("field %q item %d is not a string", name, i)
		}
		out = append(out, sv.StringValue)
	}
	return out, nil
}

func stringStruct(m map[string]string) *structpb.Struct {
	fields := make(map[string]*structpb.Value, len(m))
	for k, v := range m {
		fields[k] = structpb.NewStringValue(v)
	}
	return &structpb.Struct{Fields: fields}
}

func stringList(items []string) *structpb.Value {
	values := make([]*structpb.Value, 0, len(items))
	for _, it := range items {
		values = append(values, structpb.NewStringValue(it))
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}
