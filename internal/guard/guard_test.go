package guard

import "testing"

func TestAllowedOperationNames(t *testing.T) {
	cases := []struct {
		op      string
		allowed bool
	}{
		{"describe_instances", true},
		{"list_buckets", true},
		{"get_bucket_tagging", true},
		{"head_object", true},
		{"lookup_events", true},
		{"download_db_log_file_portion", true},
		{"simulate_principal_policy", true},
		{"detect_stack_drift", true},
		{"test_metric_filter", true},
		{"validate_template", true},
		{"check_dns_availability", true},
		{"create_bucket", false},
		{"delete_instance", false},
		{"terminate_instances", false},
		{"stop_instances", false},
		{"put_object", false},
		{"modify_instance_attribute", false},
		{"enable_metrics_collection", false},
		{"something_unrecognized", false},
	}

	for _, c := range cases {
		if got := Allowed(c.op); got != c.allowed {
			t.Errorf("Allowed(%q) = %v, want %v", c.op, got, c.allowed)
		}
	}
}

func TestAllowedAcceptsSDKMethodNames(t *testing.T) {
	cases := []struct {
		op      string
		allowed bool
	}{
		{"ListBuckets", true},
		{"DescribeInstances", true},
		{"DescribeDBInstances", true},
		{"GetCallerIdentity", true},
		{"GetBucketTagging", true},
		{"HeadObject", true},
		{"LookupEvents", true},
		{"ListFunctions", true},
		{"CreateBucket", false},
		{"DeleteInstance", false},
		{"TerminateInstances", false},
		{"PutObject", false},
		{"ModifyInstanceAttribute", false},
	}

	for _, c := range cases {
		if got := Allowed(c.op); got != c.allowed {
			t.Errorf("Allowed(%q) = %v, want %v", c.op, got, c.allowed)
		}
	}
}

// every discovery engine call site is checked against this guard before
// being issued; this property test stands in for spec property 7.
func TestReadOnlyGuardCoversDiscoveryVerbs(t *testing.T) {
	discoveryVerbs := []string{
		"describe_instances", "list_functions", "get_caller_identity",
		"list_buckets", "describe_db_instances", "list_roles",
	}
	for _, v := range discoveryVerbs {
		if !Allowed(v) {
			t.Errorf("expected discovery verb %q to be allowed", v)
		}
	}
}
