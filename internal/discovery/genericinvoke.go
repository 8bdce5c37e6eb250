package discovery

import (
	"reflect"
	"strings"
)

// genericVerbPrefixes mirrors spec §4.3 step 1's candidate verb order:
// prefer List, then Describe, then Get.
var genericVerbPrefixes = []string{"List", "Describe", "Get"}

// genericExcludedSubstrings are operation-name fragments the generic path
// skips because they return configuration or health data rather than
// resource inventories.
var genericExcludedSubstrings = []string{"Policy", "Version", "Status", "Health", "Metrics"}

// GenericOperations enumerates exported methods on an AWS SDK v1 service
// client whose name looks like a listing operation, when no Field Mapper
// pattern is registered for the service. This is the "generic discovery
// path" spec §4.3 step 1 names for unmapped services.
func GenericOperations(service string, backend CloudBackend) []string {
	client, ok := backend.(interface{ Client(service string) any })
	if !ok {
		return nil
	}
	c := client.Client(service)
	if c == nil {
		return nil
	}
	return genericOperationsFromClient(c)
}

func genericOperationsFromClient(client any) []string {
	v := reflect.ValueOf(client)
	t := v.Type()

	var byVerb = map[string][]string{}
	for i := 0; i < t.NumMethod(); i++ {
		name := t.Method(i).Name
		if strings.Contains(name, "WithContext") || strings.Contains(name, "Pages") || strings.Contains(name, "Request") {
			continue
		}
		excluded := false
		for _, bad := range genericExcludedSubstrings {
			if strings.Contains(name, bad) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		for _, verb := range genericVerbPrefixes {
			if strings.HasPrefix(name, verb) {
				byVerb[verb] = append(byVerb[verb], name)
				break
			}
		}
	}

	var ordered []string
	for _, verb := range genericVerbPrefixes {
		ordered = append(ordered, byVerb[verb]...)
	}
	return ordered
}

// InvokeGeneric calls a zero-argument-input SDK operation by name via
// reflection and returns its first return value, per spec §4.3's generic
// fallback path. The SDK method signature is assumed to be
// func(*InputType) (*OutputType, error), the shape every typed AWS SDK v1
// client method follows.
func InvokeGeneric(client any, methodName string) (any, error) {
	v := reflect.ValueOf(client)
	method := v.MethodByName(methodName)
	if !method.IsValid() {
		return nil, errUnknownMethod(methodName)
	}

	methodType := method.Type()
	if methodType.NumIn() != 1 {
		return nil, errUnknownMethod(methodName)
	}
	inputType := methodType.In(0).Elem()
	input := reflect.New(inputType)

	results := method.Call([]reflect.Value{input})
	if len(results) != 2 {
		return nil, errUnknownMethod(methodName)
	}
	if errVal := results[1].Interface(); errVal != nil {
		return nil, errVal.(error)
	}
	return results[0].Interface(), nil
}

type methodError string

func (e methodError) Error() string { return "generic invoke: " + string(e) }

func errUnknownMethod(name string) error { return methodError(name + " is not a usable SDK operation") }
