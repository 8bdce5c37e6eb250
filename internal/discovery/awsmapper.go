package discovery

import "regexp"

// awsServicePatterns transcribes OptimizedFieldMapper.optimized_service_patterns
// from the original inventory engine into the Go ServicePattern table. Field
// names and regexes are reproduced verbatim; only the shape (Python dict ->
// Go struct) changes.
func awsServicePatterns() map[string]ServicePattern {
	return map[string]ServicePattern{
		"cloudfront": {
			ResourceTypes:     []string{"Distribution"},
			Operations:        []string{"ListDistributions"},
			NameFields:        []string{"DomainName", "Id"},
			GlobalService:     true,
			ExcludeAWSManaged: true,
		},
		"iam": {
			ResourceTypes:     []string{"Role", "User", "Policy", "Group"},
			Operations:        []string{"ListRoles", "ListUsers", "ListPolicies", "ListGroups"},
			NameFields:        []string{"RoleName", "UserName", "PolicyName", "GroupName"},
			GlobalService:     true,
			ExcludeAWSManaged: true,
			ManagedPatterns: compilePatterns(
				`^aws-service-role/`,
				`^AWSServiceRole`,
				`^service-role/`,
				`^OrganizationAccountAccessRole$`,
				`^AWSReservedSSO_`,
				`^StackSet-`,
				`^CloudFormation-`,
			),
		},
		"route53": {
			ResourceTypes:        []string{"HostedZone"},
			Operations:           []string{"ListHostedZones"},
			NameFields:           []string{"Name", "Id"},
			GlobalService:        true,
			ExcludeAWSManaged:    true,
			ExcludeResourceTypes: []string{"GeoLocation"},
		},
		"s3": {
			ResourceTypes:        []string{"Bucket"},
			Operations:           []string{"ListBuckets", "GetBucketLocation"},
			NameFields:           []string{"Name"},
			GlobalService:        true,
			ExcludeAWSManaged:    true,
			RequiresRegionDetect: true,
		},
		"lambda": {
			ResourceTypes:     []string{"Function"},
			Operations:        []string{"ListFunctions"},
			NameFields:        []string{"FunctionName"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
		},
		"ec2": {
			ResourceTypes:     []string{"Instance", "VPC", "Subnet", "SecurityGroup", "InternetGateway"},
			Operations:        []string{"DescribeInstances", "DescribeVpcs", "DescribeSubnets", "DescribeSecurityGroups"},
			NameFields:        []string{"InstanceId", "VpcId", "SubnetId", "GroupId"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
			ManagedPatterns:   compilePatterns(`^default$`),
		},
		"rds": {
			ResourceTypes:     []string{"DBInstance", "DBCluster"},
			Operations:        []string{"DescribeDBInstances", "DescribeDBClusters"},
			NameFields:        []string{"DBInstanceIdentifier", "DBClusterIdentifier"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
		},
		"ecs": {
			ResourceTypes:     []string{"Cluster", "Service", "TaskDefinition", "ContainerInstance"},
			Operations:        []string{"ListClusters", "ListServices", "ListTaskDefinitions", "ListContainerInstances"},
			NameFields:        []string{"clusterName", "serviceName", "taskDefinitionArn", "containerInstanceArn"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
			ManagedPatterns:   compilePatterns(`^default$`, `^ecs-optimized-.*$`, `^AWSServiceRoleForECS.*$`),
		},
		"eks": {
			ResourceTypes:     []string{"Cluster", "NodeGroup", "FargateProfile", "Addon"},
			Operations:        []string{"ListClusters", "ListNodegroups", "ListFargateProfiles", "ListAddons"},
			NameFields:        []string{"name", "clusterName", "nodegroupName", "fargateProfileName"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
			ManagedPatterns:   compilePatterns(`^eks-.*-cluster$`, `^AWSServiceRoleForAmazonEKS.*$`),
		},
		"elasticache": {
			ResourceTypes:     []string{"CacheCluster", "ReplicationGroup", "CacheSubnetGroup", "CacheParameterGroup"},
			Operations:        []string{"DescribeCacheClusters", "DescribeReplicationGroups", "DescribeCacheSubnetGroups", "DescribeCacheParameterGroups"},
			NameFields:        []string{"CacheClusterId", "ReplicationGroupId", "CacheSubnetGroupName", "CacheParameterGroupName"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
			ManagedPatterns:   compilePatterns(`^default$`, `^default\..*$`),
		},
		"sns": {
			ResourceTypes:     []string{"Topic", "Subscription", "PlatformApplication"},
			Operations:        []string{"ListTopics", "ListSubscriptions", "ListPlatformApplications"},
			NameFields:        []string{"TopicArn", "SubscriptionArn", "Name"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
		},
		"sqs": {
			ResourceTypes:     []string{"Queue"},
			Operations:        []string{"ListQueues"},
			NameFields:        []string{"QueueUrl", "QueueName"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
		},
		"dynamodb": {
			ResourceTypes:     []string{"Table", "Backup", "GlobalTable"},
			Operations:        []string{"ListTables", "ListBackups", "ListGlobalTables"},
			NameFields:        []string{"TableName", "BackupName", "GlobalTableName"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
		},
		"apigateway": {
			ResourceTypes:     []string{"RestApi", "DomainName", "ApiKey", "UsagePlan"},
			Operations:        []string{"GetRestApis", "GetDomainNames", "GetApiKeys", "GetUsagePlans"},
			NameFields:        []string{"id", "restApiId", "name", "domainName"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
		},
		"cloudformation": {
			ResourceTypes:     []string{"Stack", "StackSet", "ChangeSet"},
			Operations:        []string{"ListStacks", "ListStackSets", "ListChangeSets"},
			NameFields:        []string{"StackName", "StackSetName", "ChangeSetName"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
			ManagedPatterns:   compilePatterns(`^aws-.*$`, `^AWSServiceRole.*$`),
		},
		"codepipeline": {
			ResourceTypes:     []string{"Pipeline"},
			Operations:        []string{"ListPipelines"},
			NameFields:        []string{"name", "pipelineName"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
		},
		"codebuild": {
			ResourceTypes:     []string{"Project", "Build"},
			Operations:        []string{"ListProjects", "ListBuilds"},
			NameFields:        []string{"name", "projectName", "buildId"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
		},
		"secretsmanager": {
			ResourceTypes:     []string{"Secret"},
			Operations:        []string{"ListSecrets"},
			NameFields:        []string{"Name", "ARN", "SecretId"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
			ManagedPatterns:   compilePatterns(`^aws/.*$`, `^rds-db-credentials/.*$`),
		},
		"ssm": {
			ResourceTypes:     []string{"Parameter", "Document", "PatchBaseline"},
			Operations:        []string{"DescribeParameters", "ListDocuments", "DescribePatchBaselines"},
			NameFields:        []string{"Name", "ParameterName", "DocumentName"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
		},
		"kms": {
			ResourceTypes:     []string{"Key", "Alias"},
			Operations:        []string{"ListKeys", "ListAliases"},
			NameFields:        []string{"KeyId", "AliasName"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
			ManagedPatterns:   compilePatterns(`^alias/aws/.*$`, `^aws/.*$`),
		},
		"acm": {
			ResourceTypes:     []string{"Certificate"},
			Operations:        []string{"ListCertificates"},
			NameFields:        []string{"CertificateArn", "DomainName"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
		},
		"wafv2": {
			ResourceTypes:     []string{"WebACL", "RuleGroup", "IPSet"},
			Operations:        []string{"ListWebACLs", "ListRuleGroups", "ListIPSets"},
			NameFields:        []string{"Name", "Id", "ARN"},
			RegionDependent:   true,
			ExcludeAWSManaged: true,
		},
	}
}

// globalManagedPatterns catches AWS-managed naming conventions that apply
// across every service, independent of the per-service table.
var globalManagedPatterns = compilePatterns(
	`^aws-`, `^AWS`, `^amazon-`, `^Amazon`, `^default`, `^Default`,
)

func compilePatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}
