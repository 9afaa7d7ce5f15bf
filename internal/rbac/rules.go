package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"course:view",
		"course:enroll",
		"lesson:view",
		"quiz:view",
		"quiz:submit",
		"progress:write",
		"attempt:view-own",
		"dashboard:student",
		"forum:view",
		"forum:post",
		"forum:vote",
		"profile:*",
	},
	"parent": {
		"course:view",
		"dashboard:parent",
		"forum:view",
		"profile:*",
	},
	"teacher": {
		"course:view",
		"lesson:view",
		"quiz:view",
		"attempt:view-all",
		"dashboard:teacher",
		"forum:view",
		"forum:post",
		"forum:vote",
		"profile:*",
	},
	"admin": {
		"*", // everything
	},
}
