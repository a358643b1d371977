package testutil

// UsersManifest declares a "users" table whose uid field has a numeric
// filter, used across the resolver tests.
const UsersManifest = `
table "users" {
  group       = "User"
  title       = "Users"
  entity_type = "user"

  field "uid" {
    title = "User ID"
    help  = "The user ID"

    handler "filter" {
      id = "numeric"
    }
    handler "argument" {
      id = "numeric"
    }
    handler "sort" {
      id = "standard"
    }
  }

  field "name" {
    title = "Name"

    handler "filter" {
      id = "string"
    }
    handler "field" {
      id = "missing_plugin"
    }
  }
}
`
